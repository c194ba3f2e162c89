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
	"github.com/stagelink/gigbook/internal/repository"
)

// UpdateGig handles PATCH /v1/gigs/:id. Only the booking's initiator may
// edit, and only while the booking is not cancelled or completed. The
// request uses the same field set as create; empty optional fields keep
// their stored values and everything supplied is re-normalized before the
// merge into the existing metadata.
func (h *ArtistHandler) UpdateGig(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	gigID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || gigID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid gig id"})
	}
	var body gigRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
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
	booking, err := h.BookingRepo.GetByGigID(ctx, gigID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if booking.BookedBy != callerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the booking initiator may edit this gig"})
	}
	if booking.Status == model.BookingStatusCancelled || booking.Status == model.BookingStatusCompleted {
		return c.JSON(http.StatusConflict, echo.Map{"error": "a cancelled or completed booking cannot be edited"})
	}

	loc, err := time.LoadLocation(gig.Timezone)
	if err != nil {
		loc = time.UTC
	}
	if s := strings.TrimSpace(body.Timezone); s != "" {
		loc, err = normalize.Timezone(s)
		if err != nil {
			return validationError(c, err)
		}
		gig.Timezone = loc.String()
	}
	if s := strings.TrimSpace(body.Title); s != "" {
		gig.Title = s
	}
	if body.Description != "" {
		gig.Description = body.Description
	}
	if s := strings.TrimSpace(body.EventType); s != "" {
		et, err := normalize.EventType(s)
		if err != nil {
			return validationError(c, err)
		}
		gig.EventType = et
	}
	if s := strings.TrimSpace(body.StartsAt); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at format"})
		}
		gig.StartsAt = t.UTC()
	}
	if s := strings.TrimSpace(body.EndsAt); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ends_at format"})
		}
		gig.EndsAt = &t
	}
	if gig.EndsAt != nil {
		if !gig.EndsAt.After(gig.StartsAt) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
		}
		if err := normalize.SameDay(gig.StartsAt, *gig.EndsAt, loc); err != nil {
			return validationError(c, err)
		}
	}

	if body.ArtworkURL != "" {
		u, err := normalize.URL("artwork_url", body.ArtworkURL)
		if err != nil {
			return validationError(c, err)
		}
		gig.Meta.ArtworkURL = u
	}
	if body.TicketSummary != "" {
		gig.Meta.TicketSummary = body.TicketSummary
	}
	if body.EntryRequirements != "" {
		gig.Meta.EntryRequirements = body.EntryRequirements
	}
	if body.DoorsOpen != "" {
		gig.Meta.DoorsOpen = body.DoorsOpen
	}
	if body.SetStart != "" {
		gig.Meta.SetStart = body.SetStart
	}
	if body.SetEnd != "" {
		gig.Meta.SetEnd = body.SetEnd
	}
	if body.AgeRestrictionMode != "" {
		age, err := normalize.AgeRestriction(body.AgeRestrictionMode, body.AgeRestrictions)
		if err != nil {
			return validationError(c, err)
		}
		gig.Meta.AgeRestriction = age
	}
	if body.TicketMode != "" {
		tickets, err := normalize.TicketAvailability(body.TicketMode, body.TicketCustomCount)
		if err != nil {
			return validationError(c, err)
		}
		gig.Meta.Tickets = tickets
	}
	if body.OtherPerformers != nil {
		gig.Meta.OtherPerformers = body.OtherPerformers
	}
	if body.AgreedDate != "" {
		gig.Meta.AgreedDate = body.AgreedDate
	}
	if body.StreamURL != "" {
		u, err := normalize.URL("stream_url", body.StreamURL)
		if err != nil {
			return validationError(c, err)
		}
		gig.Meta.StreamURL = u
	}

	// Rescheduling the publish only makes sense while the gig is still a
	// hidden draft; a published gig keeps its stamped metadata.
	publishNow := false
	if body.PublishMode != "" && gig.Status == model.GigStatusDraft {
		publish, err := normalize.PublishSchedule(body.PublishMode, body.PublishDate, body.PublishTime, loc, now)
		if err != nil {
			return validationError(c, err)
		}
		gig.Meta.Publish = publish
		publishNow = publish.Mode == model.PublishModeImmediate
	}

	if s := strings.TrimSpace(body.VenueName); s != "" {
		venue, err := h.VenueRepo.FindOrCreate(ctx, callerID, s,
			body.VenueAddressLine1, body.VenueCity, body.VenueCountry)
		if err != nil {
			log.Printf("gig handler: venue resolve failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve venue"})
		}
		gig.VenueID = &venue.ID
		gig.Meta.VenueName = s
		gig.Meta.VenueAddress = strings.Join(nonEmpty(body.VenueAddressLine1, body.VenueCity, body.VenueCountry), ", ")
	}

	// The status column is written separately from the field update so a
	// concurrent promotion cannot be clobbered.
	if err := h.GigRepo.Update(ctx, gig); err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gig not found"})
		}
		log.Printf("gig handler: update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update gig"})
	}
	if publishNow {
		if err := h.GigRepo.PublishNow(ctx, gig, now); err != nil && !errors.Is(err, repository.ErrConflict) {
			log.Printf("gig handler: publish on edit failed: %v", err)
		}
	}

	fresh, err := h.GigRepo.GetByID(ctx, gig.ID)
	if err != nil {
		fresh = gig
	}
	return c.JSON(http.StatusOK, echo.Map{
		"gig_id":     fresh.ID,
		"gig_status": fresh.Status,
	})
}
