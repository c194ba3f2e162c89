package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagelink/gigbook/internal/model"
	"github.com/stagelink/gigbook/internal/normalize"
	"github.com/stagelink/gigbook/internal/queue"
	"github.com/stagelink/gigbook/internal/repository"
	"github.com/stagelink/gigbook/internal/service"
)

// gigRequest is the shared payload for creating and editing a gig. Edits
// treat empty optional fields as "keep existing"; Fee is a pointer so an
// absent fee can be told apart from an explicit zero.
type gigRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	EventType          string   `json:"event_type"`
	StartsAt           string   `json:"starts_at"` // RFC3339
	EndsAt             string   `json:"ends_at"`   // RFC3339, optional
	Timezone           string   `json:"timezone"`
	GigType            string   `json:"gig_type"` // in_person | streaming
	StreamURL          string   `json:"stream_url"`
	VenueName          string   `json:"venue_name"`
	VenueAddressLine1  string   `json:"venue_address_line1"`
	VenueCity          string   `json:"venue_city"`
	VenueCountry       string   `json:"venue_country"`
	Fee                *float64 `json:"fee"`
	Currency           string   `json:"currency"`
	SpecialRequest     string   `json:"special_request"`
	ArtworkURL         string   `json:"artwork_url"`
	TicketSummary      string   `json:"ticket_summary"`
	EntryRequirements  string   `json:"entry_requirements"`
	DoorsOpen          string   `json:"doors_open"` // HH:MM local
	SetStart           string   `json:"set_start"`  // HH:MM local
	SetEnd             string   `json:"set_end"`    // HH:MM local
	AgeRestrictionMode string   `json:"age_restriction_mode"`
	AgeRestrictions    []string `json:"age_restrictions"`
	TicketMode         string   `json:"ticket_mode"`
	TicketCustomCount  *int     `json:"ticket_custom_count"`
	PublishMode        string   `json:"publish_mode"`
	PublishDate        string   `json:"publish_date"` // YYYY-MM-DD
	PublishTime        string   `json:"publish_time"` // HH:MM
	OtherPerformers    []string `json:"other_performers"`
	AgreedDate         string   `json:"agreed_date"`
}

// validationError maps a *normalize.Error to a 400 response and anything
// else to a generic 500 with the detail logged.
func validationError(c echo.Context, err error) error {
	var verr *normalize.Error
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Message, "field": verr.Field})
	}
	log.Printf("gig handler: unexpected error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// CreateGig handles POST /v1/gigs. It normalizes all inputs, resolves or
// creates the venue for in-person gigs, and creates the gig together with
// its booking in one transaction. A self-booked gig is immediately
// CONFIRMED; the gig itself is PUBLISHED for immediate publish mode and
// DRAFT when a future publish is scheduled.
func (h *ArtistHandler) CreateGig(c echo.Context) error {
	artistID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body gigRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	now := time.Now().UTC()
	ctx := c.Request().Context()

	eventType, err := normalize.EventType(body.EventType)
	if err != nil {
		return validationError(c, err)
	}
	loc, err := normalize.Timezone(body.Timezone)
	if err != nil {
		return validationError(c, err)
	}
	startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(body.StartsAt))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at format"})
	}
	var endsAt *time.Time
	if s := strings.TrimSpace(body.EndsAt); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ends_at format"})
		}
		if !t.After(startsAt) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
		}
		if err := normalize.SameDay(startsAt, t, loc); err != nil {
			return validationError(c, err)
		}
		endsAt = &t
	}
	var fee = 0.0
	if body.Fee != nil {
		fee = *body.Fee
	}
	feeDec, err := normalize.Fee(fee)
	if err != nil {
		return validationError(c, err)
	}
	currency, err := normalize.Currency(body.Currency)
	if err != nil {
		return validationError(c, err)
	}
	age, err := normalize.AgeRestriction(body.AgeRestrictionMode, body.AgeRestrictions)
	if err != nil {
		return validationError(c, err)
	}
	tickets, err := normalize.TicketAvailability(body.TicketMode, body.TicketCustomCount)
	if err != nil {
		return validationError(c, err)
	}
	publish, err := normalize.PublishSchedule(body.PublishMode, body.PublishDate, body.PublishTime, loc, now)
	if err != nil {
		return validationError(c, err)
	}

	meta := model.GigMeta{
		ArtworkURL:        body.ArtworkURL,
		TicketSummary:     body.TicketSummary,
		EntryRequirements: body.EntryRequirements,
		DoorsOpen:         body.DoorsOpen,
		SetStart:          body.SetStart,
		SetEnd:            body.SetEnd,
		AgeRestriction:    age,
		Tickets:           tickets,
		Publish:           publish,
		OtherPerformers:   body.OtherPerformers,
		AgreedDate:        body.AgreedDate,
	}
	if body.ArtworkURL != "" {
		if _, err := normalize.URL("artwork_url", body.ArtworkURL); err != nil {
			return validationError(c, err)
		}
	}

	var venue *model.Venue
	switch strings.ToLower(strings.TrimSpace(body.GigType)) {
	case "", model.GigTypeInPerson:
		meta.GigType = model.GigTypeInPerson
		if strings.TrimSpace(body.VenueName) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue_name is required for in-person gigs"})
		}
		venue, err = h.VenueRepo.FindOrCreate(ctx, artistID, body.VenueName,
			body.VenueAddressLine1, body.VenueCity, body.VenueCountry)
		if err != nil {
			log.Printf("gig handler: venue resolve failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve venue"})
		}
		meta.VenueName = body.VenueName
		meta.VenueAddress = strings.TrimSpace(strings.Join(nonEmpty(body.VenueAddressLine1, body.VenueCity, body.VenueCountry), ", "))
	case model.GigTypeStreaming:
		meta.GigType = model.GigTypeStreaming
		streamURL, err := normalize.URL("stream_url", body.StreamURL)
		if err != nil {
			return validationError(c, err)
		}
		meta.StreamURL = streamURL
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gig_type must be in_person or streaming"})
	}

	gigStatus := model.GigStatusDraft
	if publish.Mode == model.PublishModeImmediate {
		gigStatus = model.GigStatusPublished
	}
	gig := &model.Gig{
		Title:       strings.TrimSpace(body.Title),
		Description: body.Description,
		EventType:   eventType,
		StartsAt:    startsAt.UTC(),
		EndsAt:      endsAt,
		Timezone:    loc.String(),
		Status:      gigStatus,
		Meta:        meta,
	}
	booking := &model.Booking{
		ArtistID:       artistID,
		Status:         model.BookingStatusConfirmed,
		Fee:            feeDec,
		Currency:       currency,
		SpecialRequest: body.SpecialRequest,
		BookedBy:       artistID,
		BookedAt:       now,
	}
	if venue != nil {
		gig.VenueID = &venue.ID
		booking.VenueID = &venue.ID
	}

	tx, err := h.GigRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.GigRepo.CreateTx(ctx, tx, gig); err != nil {
		log.Printf("gig handler: create gig failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create gig"})
	}
	booking.GigID = gig.ID
	if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
		log.Printf("gig handler: create booking failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if gig.Status == model.GigStatusPublished {
		// Best effort; the publisher logs its own failures.
		_ = service.PublishGigPublished(ctx, queue.NewGigPublishedEvent(gig))
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"gig_id":         gig.ID,
		"booking_id":     booking.ID,
		"gig_status":     gig.Status,
		"booking_status": booking.Status,
	})
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	return out
}

// ListGigs handles GET /v1/gigs. Query parameters: view
// (calendar|invites|requests|all), status (comma-separated booking
// statuses), from/to (RFC3339), limit, offset. Before projecting, any
// fetched draft gig whose scheduled publish instant has elapsed is
// promoted in place; a failed promotion is logged and never aborts the
// read, so the caller still sees their data and the publish retries on
// the next read.
func (h *ArtistHandler) ListGigs(c echo.Context) error {
	artistID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	now := time.Now().UTC()

	f := repository.ArtistGigFilter{View: c.QueryParam("view")}
	if s := strings.TrimSpace(c.QueryParam("status")); s != "" {
		for _, part := range strings.Split(s, ",") {
			if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
				f.Statuses = append(f.Statuses, part)
			}
		}
	}
	if s := c.QueryParam("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from format"})
		}
		f.From = &t
	}
	if s := c.QueryParam("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to format"})
		}
		f.To = &t
	}
	f.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	f.Offset, _ = strconv.Atoi(c.QueryParam("offset"))

	rows, total, err := h.BookingRepo.ListForArtist(ctx, artistID, f)
	if err != nil {
		log.Printf("gig handler: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load gigs"})
	}

	items := make([]echo.Map, 0, len(rows))
	for _, row := range rows {
		// Lazy publish promotion piggybacks on the read path.
		if promoted, err := h.GigRepo.PromoteDue(ctx, row.Gig, now); err != nil {
			log.Printf("publish scheduler: gig %d promotion failed: %v", row.Gig.ID, err)
		} else if promoted {
			_ = service.PublishGigPublished(ctx, queue.NewGigPublishedEvent(row.Gig))
		}
		display, tile := projectGig(row.Gig, row.Booking, row.Venue)
		items = append(items, echo.Map{
			"booking_id":     row.Booking.ID,
			"gig_id":         row.Gig.ID,
			"booking_status": row.Booking.Status,
			"gig_status":     row.Gig.Status,
			"fee":            row.Booking.Fee,
			"currency":       row.Booking.Currency,
			"display":        display,
			"tile":           tile,
		})
	}

	summary, err := h.BookingRepo.CountsForArtist(ctx, artistID)
	if err != nil {
		log.Printf("gig handler: summary failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load summary"})
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":   items,
		"summary": summary,
		"pagination": echo.Map{
			"total":  total,
			"limit":  limit,
			"offset": f.Offset,
		},
	})
}

// GetGig handles GET /v1/gigs/:id and returns the reconciled display and
// artist tile for a single gig. The caller must be the booking's artist.
func (h *ArtistHandler) GetGig(c echo.Context) error {
	artistID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	gigID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || gigID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid gig id"})
	}
	ctx := c.Request().Context()
	gig, err := h.GigRepo.GetByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gig not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load gig"})
	}
	booking, err := h.BookingRepo.GetByGigID(ctx, gigID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if booking.ArtistID != artistID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var venue *model.Venue
	if gig.VenueID != nil {
		if v, err := h.VenueRepo.GetByID(ctx, *gig.VenueID); err == nil {
			venue = v
		} else if !errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venue"})
		}
	}
	display, tile := projectGig(gig, booking, venue)
	return c.JSON(http.StatusOK, echo.Map{
		"gig_id":         gig.ID,
		"booking_id":     booking.ID,
		"gig_status":     gig.Status,
		"booking_status": booking.Status,
		"display":        display,
		"tile":           tile,
	})
}
