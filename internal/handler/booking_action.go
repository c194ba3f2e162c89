package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagelink/gigbook/internal/lifecycle"
	"github.com/stagelink/gigbook/internal/model"
	"github.com/stagelink/gigbook/internal/queue"
	"github.com/stagelink/gigbook/internal/repository"
	"github.com/stagelink/gigbook/internal/service"
)

// ActOnBooking handles POST /v1/bookings/:id/actions. The body carries a
// single action (accept_invite, decline_invite, cancel_request,
// mark_completed, publish_now); the lifecycle package validates the
// guards against an explicit clock and the repository applies the result
// with a conditional update, so two near-simultaneous calls cannot both
// win.
func (h *ArtistHandler) ActOnBooking(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Action string `json:"action"`
	}
	if err := c.Bind(&body); err != nil || body.Action == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "action is required"})
	}
	ctx := c.Request().Context()
	now := time.Now().UTC()

	booking, err := h.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	// Only the booking's own parties may act on it at all; finer-grained
	// initiator guards live in the lifecycle rules.
	if booking.ArtistID != callerID && booking.BookedBy != callerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var gig *model.Gig
	if g, err := h.GigRepo.GetByID(ctx, booking.GigID); err == nil {
		gig = g
	} else if !errors.Is(err, repository.ErrGigNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load gig"})
	}

	tr, err := lifecycle.Apply(body.Action, booking, gig, callerID, now)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrUnknownAction):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown action"})
		case errors.Is(err, lifecycle.ErrNotAllowed):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you may not perform this action on this booking"})
		case errors.Is(err, lifecycle.ErrGigMissing):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking has no linked gig"})
		case errors.Is(err, lifecycle.ErrGigNotStarted):
			return c.JSON(http.StatusConflict, echo.Map{"error": "gig has not started yet"})
		default: // ErrInvalidState
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking state does not allow this action"})
		}
	}

	oldStatus := booking.Status
	if err := h.BookingRepo.ApplyTransition(ctx, booking.ID, oldStatus, tr); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking was modified concurrently, retry"})
		}
		log.Printf("booking handler: transition failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update booking"})
	}
	if tr.NewStatus != "" {
		booking.Status = tr.NewStatus
	}

	if tr.PublishGig {
		if err := h.GigRepo.PublishNow(ctx, gig, now); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "gig state does not allow publishing"})
			}
			log.Printf("booking handler: publish_now failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not publish gig"})
		}
		_ = service.PublishGigPublished(ctx, queue.NewGigPublishedEvent(gig))
	}
	if tr.NewStatus == model.BookingStatusCompleted && gig != nil {
		// The gig record follows its booking into the terminal state.
		if err := h.GigRepo.SetStatus(ctx, gig.ID, model.GigStatusCompleted); err != nil {
			log.Printf("booking handler: gig completion failed: %v", err)
		}
	}
	if tr.NewStatus != "" && tr.NewStatus != oldStatus {
		_ = service.PublishBookingStatus(ctx, queue.NewBookingStatusEvent(booking, oldStatus, tr.CancelReason, now))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"booking_id":     booking.ID,
		"booking_status": booking.Status,
		"gig_status":     gigStatus(gig),
	})
}

func gigStatus(g *model.Gig) string {
	if g == nil {
		return ""
	}
	return g.Status
}
