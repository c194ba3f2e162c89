package service

import (
	"context"
	"log"
	"time"

	"github.com/stagelink/gigbook/internal/queue"
	"github.com/stagelink/gigbook/internal/repository"
)

// StartPublishSweeper periodically promotes scheduled drafts whose
// publish instant has passed. Promotion already happens lazily on the
// read path; the sweeper exists so that a gig nobody lists still goes
// public on time. The loop stops when ctx is cancelled.
func StartPublishSweeper(ctx context.Context, gigs *repository.GigRepo, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepOnce(ctx, gigs)
		}
	}
}

func sweepOnce(ctx context.Context, gigs *repository.GigRepo) {
	now := time.Now().UTC()
	drafts, err := gigs.ListDrafts(ctx)
	if err != nil {
		log.Printf("publish-sweeper: list drafts failed: %v", err)
		return
	}
	for _, g := range drafts {
		promoted, err := gigs.PromoteDue(ctx, g, now)
		if err != nil {
			log.Printf("publish-sweeper: promote gig %d failed: %v", g.ID, err)
			continue
		}
		if promoted {
			_ = PublishGigPublished(ctx, queue.NewGigPublishedEvent(g))
		}
	}
}
