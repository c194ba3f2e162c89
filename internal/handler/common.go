package handler // handler contains the HTTP boundary of the booking engine

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagelink/gigbook/internal/model"
	"github.com/stagelink/gigbook/internal/reconcile"
	"github.com/stagelink/gigbook/internal/repository"
)

// ArtistHandler bundles the repositories behind the artist-facing gig and
// booking endpoints. JWT authentication and role checks run in middleware
// before any method here is invoked; handlers only read the resolved
// caller identity from the context.
type ArtistHandler struct {
	GigRepo     *repository.GigRepo
	BookingRepo *repository.BookingRepo
	VenueRepo   *repository.VenueRepo
}

// NewArtistHandler constructs an ArtistHandler. All dependencies must be
// non-nil.
func NewArtistHandler(gigRepo *repository.GigRepo, bookingRepo *repository.BookingRepo, venueRepo *repository.VenueRepo) *ArtistHandler {
	if gigRepo == nil || bookingRepo == nil || venueRepo == nil {
		panic("nil repository passed to NewArtistHandler")
	}
	return &ArtistHandler{GigRepo: gigRepo, BookingRepo: bookingRepo, VenueRepo: venueRepo}
}

// getUserID extracts the authenticated user's ID from the echo context.
// The JWT middleware stores the raw claim, which may arrive as any numeric
// or string type depending on how the upstream issuer encoded it.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// reconcileInput assembles the resolver input for one gig/booking/venue
// triple. The artist's side comes from the gig row and its metadata, the
// venue's side from the override block and the venue record.
func reconcileInput(g *model.Gig, b *model.Booking, v *model.Venue) reconcile.Input {
	in := reconcile.Input{
		Artist: reconcile.ArtistSubmission{
			Title:             g.Title,
			Description:       g.Description,
			ArtworkURL:        g.Meta.ArtworkURL,
			TicketSummary:     g.Meta.TicketSummary,
			EntryRequirements: g.Meta.EntryRequirements,
			DoorsOpen:         g.Meta.DoorsOpen,
			SetStart:          g.Meta.SetStart,
			SetEnd:            g.Meta.SetEnd,
			StartsAt:          g.StartsAt,
			EndsAt:            g.EndsAt,
			VenueName:         g.Meta.VenueName,
			VenueAddress:      g.Meta.VenueAddress,
		},
		Override: g.Meta.VenueOverride,
	}
	if b != nil {
		in.VenueInitiated = b.BookedBy != b.ArtistID
	}
	if v != nil {
		in.Venue = &reconcile.VenueIdentity{Name: v.Name, Address: v.Address()}
	}
	return in
}

// projectGig computes the public display and the artist tile for one gig.
func projectGig(g *model.Gig, b *model.Booking, v *model.Venue) (reconcile.Display, reconcile.Tile) {
	display := reconcile.Resolve(reconcileInput(g, b, v))
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		loc = time.UTC
	}
	in := reconcileInput(g, b, v)
	tile := reconcile.TileFor(display, in.Artist, g.Meta.OtherPerformers, loc)
	return display, tile
}
