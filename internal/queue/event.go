// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records booking status changes.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/stagelink/gigbook/internal/model"
)

// GigPublishedEvent is emitted on the gig.published queue whenever a gig
// becomes publicly visible, whether at creation, through the lazy
// scheduler, or via an explicit publish_now action. It carries enough
// information for downstream consumers to notify or index without
// querying the primary database.
type GigPublishedEvent struct {
	EventID     string `json:"event_id"`
	GigID       uint64 `json:"gig_id"`
	Title       string `json:"title"`
	EventType   string `json:"event_type"`
	GigType     string `json:"gig_type"`
	StartsAt    string `json:"starts_at"`
	Timezone    string `json:"timezone"`
	VenueName   string `json:"venue_name,omitempty"`
	PublishedAt string `json:"published_at"`
}

// NewGigPublishedEvent builds the event payload from a gig row.
func NewGigPublishedEvent(g *model.Gig) GigPublishedEvent {
	ev := GigPublishedEvent{
		EventID:   uuid.NewString(),
		GigID:     g.ID,
		Title:     g.Title,
		EventType: g.EventType,
		GigType:   g.Meta.GigType,
		StartsAt:  g.StartsAt.UTC().Format(time.RFC3339),
		Timezone:  g.Timezone,
		VenueName: g.Meta.VenueName,
	}
	if p := g.Meta.Publish; p != nil && p.PublishedAt != nil {
		ev.PublishedAt = p.PublishedAt.UTC().Format(time.RFC3339)
	} else {
		ev.PublishedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return ev
}

// BookingStatusEvent is emitted on the booking.status queue after a
// booking transition is committed.
type BookingStatusEvent struct {
	EventID      string `json:"event_id"`
	BookingID    uint64 `json:"booking_id"`
	GigID        uint64 `json:"gig_id"`
	ArtistID     uint64 `json:"artist_id"`
	BookedBy     uint64 `json:"booked_by"`
	OldStatus    string `json:"old_status"`
	NewStatus    string `json:"new_status"`
	CancelReason string `json:"cancel_reason,omitempty"`
	OccurredAt   string `json:"occurred_at"`
}

// NewBookingStatusEvent builds the event payload for one committed
// transition. The booking carries its new status already.
func NewBookingStatusEvent(b *model.Booking, oldStatus, cancelReason string, at time.Time) BookingStatusEvent {
	return BookingStatusEvent{
		EventID:      uuid.NewString(),
		BookingID:    b.ID,
		GigID:        b.GigID,
		ArtistID:     b.ArtistID,
		BookedBy:     b.BookedBy,
		OldStatus:    oldStatus,
		NewStatus:    b.Status,
		CancelReason: cancelReason,
		OccurredAt:   at.UTC().Format(time.RFC3339),
	}
}
