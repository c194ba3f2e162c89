package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagelink/gigbook/internal/model"
	"github.com/stagelink/gigbook/internal/queue"
	"github.com/stagelink/gigbook/internal/reconcile"
	"github.com/stagelink/gigbook/internal/repository"
	"github.com/stagelink/gigbook/internal/service"
)

// PublicHandler serves the unauthenticated gig listing. It returns only
// resolved display data; raw artist submissions and venue overrides never
// leave the reconciliation layer.
type PublicHandler struct {
	GigRepo     *repository.GigRepo
	BookingRepo *repository.BookingRepo
	VenueRepo   *repository.VenueRepo
}

// NewPublicHandler constructs a PublicHandler. All dependencies must be
// non-nil.
func NewPublicHandler(gigRepo *repository.GigRepo, bookingRepo *repository.BookingRepo, venueRepo *repository.VenueRepo) *PublicHandler {
	if gigRepo == nil || bookingRepo == nil || venueRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{GigRepo: gigRepo, BookingRepo: bookingRepo, VenueRepo: venueRepo}
}

// promoteDueDrafts flips any scheduled draft whose publish instant has
// passed, so a public read never misses a gig that should already be
// visible. Failures are logged and skipped; the sweeper will retry.
func (h *PublicHandler) promoteDueDrafts(c echo.Context, now time.Time) {
	ctx := c.Request().Context()
	drafts, err := h.GigRepo.ListDrafts(ctx)
	if err != nil {
		log.Printf("public handler: list drafts failed: %v", err)
		return
	}
	for _, g := range drafts {
		promoted, err := h.GigRepo.PromoteDue(ctx, g, now)
		if err != nil {
			log.Printf("public handler: promote gig %d failed: %v", g.ID, err)
			continue
		}
		if promoted {
			_ = service.PublishGigPublished(ctx, queue.NewGigPublishedEvent(g))
		}
	}
}

// display resolves one gig into its public shape, loading the booking and
// venue rows when present. Both are optional; a gig with no venue row
// falls back to the placeholder texts inside the resolver.
func (h *PublicHandler) display(c echo.Context, g *model.Gig) reconcile.Display {
	ctx := c.Request().Context()
	var booking *model.Booking
	if b, err := h.BookingRepo.GetByGigID(ctx, g.ID); err == nil {
		booking = b
	}
	var venue *model.Venue
	if g.VenueID != nil {
		if v, err := h.VenueRepo.GetByID(ctx, *g.VenueID); err == nil {
			venue = v
		}
	}
	return reconcile.Resolve(reconcileInput(g, booking, venue))
}

type publicGigItem struct {
	GigID     uint64            `json:"gig_id"`
	EventType string            `json:"event_type"`
	GigType   string            `json:"gig_type"`
	StartsAt  string            `json:"starts_at"`
	Timezone  string            `json:"timezone"`
	Display   reconcile.Display `json:"display"`
}

func publicItem(g *model.Gig, d reconcile.Display) publicGigItem {
	return publicGigItem{
		GigID:     g.ID,
		EventType: g.EventType,
		GigType:   g.Meta.GigType,
		StartsAt:  g.StartsAt.UTC().Format(time.RFC3339),
		Timezone:  g.Timezone,
		Display:   d,
	}
}

// ListPublic handles GET /v1/public/gigs.
func (h *PublicHandler) ListPublic(c echo.Context) error {
	now := time.Now().UTC()
	h.promoteDueDrafts(c, now)

	limit := 20
	if s := c.QueryParam("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}
	offset := 0
	if s := c.QueryParam("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}

	gigs, err := h.GigRepo.ListPublished(c.Request().Context(), limit, offset)
	if err != nil {
		log.Printf("public handler: list published failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load gigs"})
	}

	items := make([]publicGigItem, 0, len(gigs))
	for _, g := range gigs {
		items = append(items, publicItem(g, h.display(c, g)))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}

// GetPublic handles GET /v1/public/gigs/:id. Drafts due for promotion are
// flipped before the visibility check, so a scheduled gig whose time has
// arrived is served rather than hidden.
func (h *PublicHandler) GetPublic(c echo.Context) error {
	gigID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || gigID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid gig id"})
	}
	ctx := c.Request().Context()
	now := time.Now().UTC()

	gig, err := h.GigRepo.GetByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gig not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load gig"})
	}
	if gig.Status == model.GigStatusDraft {
		promoted, err := h.GigRepo.PromoteDue(ctx, gig, now)
		if err != nil {
			log.Printf("public handler: promote gig %d failed: %v", gig.ID, err)
		}
		if promoted {
			_ = service.PublishGigPublished(ctx, queue.NewGigPublishedEvent(gig))
		}
	}
	if gig.Status != model.GigStatusPublished {
		// Drafts and terminal gigs are indistinguishable from missing ones.
		return c.JSON(http.StatusNotFound, echo.Map{"error": "gig not found"})
	}
	return c.JSON(http.StatusOK, publicItem(gig, h.display(c, gig)))
}
