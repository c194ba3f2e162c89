package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/stagelink/gigbook/internal/config"
	"github.com/stagelink/gigbook/internal/database"
	"github.com/stagelink/gigbook/internal/handler"
	"github.com/stagelink/gigbook/internal/middleware"
	"github.com/stagelink/gigbook/internal/queue"
	"github.com/stagelink/gigbook/internal/repository"
	"github.com/stagelink/gigbook/internal/router"
	"github.com/stagelink/gigbook/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	gigRepo := repository.NewGigRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	venueRepo := repository.NewVenueRepo(db)

	artist := handler.NewArtistHandler(gigRepo, bookingRepo, venueRepo)
	public := handler.NewPublicHandler(gigRepo, bookingRepo, venueRepo)

	e := echo.New()

	// Redis backs the rate limiter and the public response cache. A nil
	// client disables both and the server still runs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterArtist(e, artist, cfg.JWTSecret)
	router.RegisterPublic(e, public, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Background workers: the broker consumer that records booking status
	// changes, and the sweeper that promotes scheduled drafts on time
	// even when nobody is reading.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()
	go service.StartPublishSweeper(context.Background(), gigRepo, cfg.PublishSweepInterval)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
