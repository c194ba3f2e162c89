// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stagelink/gigbook/internal/handler"
	"github.com/stagelink/gigbook/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check
// used by load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterArtist registers artist-scoped endpoints under /v1. All routes
// require a valid JWT and the ARTIST role. Artists create and edit gigs,
// list their own gigs by view (invites, requests, calendar) and drive
// booking transitions through the action endpoint.
func RegisterArtist(e *echo.Echo, h *handler.ArtistHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ARTIST", "VENUE"),
	)
	g.POST("/gigs", h.CreateGig)
	g.GET("/gigs", h.ListGigs)
	g.GET("/gigs/:id", h.GetGig)
	g.PATCH("/gigs/:id", h.UpdateGig)
	g.POST("/bookings/:id/actions", h.ActOnBooking)
}

// RegisterPublic registers the unauthenticated browse endpoints. The
// handlers return only reconciled display data, so no JWT or role
// middleware applies here. Extra middleware (typically the response
// cache) can be passed in and is applied to the whole group.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1/public", mw...)
	g.GET("/gigs", p.ListPublic)
	g.GET("/gigs/:id", p.GetPublic)
}
