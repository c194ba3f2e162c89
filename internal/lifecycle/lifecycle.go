// Package lifecycle validates and describes booking status transitions.
// It is deliberately pure: the caller identity and the current instant are
// passed in, and the result is a Transition value the repository applies
// with a conditional update so the guard check and the write behave as one
// unit.
package lifecycle

import (
	"errors"
	"time"

	"github.com/stagelink/gigbook/internal/model"
)

// Actions accepted by the booking action endpoint.
const (
	ActionAcceptInvite  = "accept_invite"
	ActionDeclineInvite = "decline_invite"
	ActionCancelRequest = "cancel_request"
	ActionMarkCompleted = "mark_completed"
	ActionPublishNow    = "publish_now"
)

// Guard failures. Handlers translate ErrNotAllowed to 403 and the rest to
// 409; none of them indicate a fault in the system.
var (
	ErrUnknownAction = errors.New("unknown booking action")
	ErrNotAllowed    = errors.New("caller may not perform this action on the booking")
	ErrInvalidState  = errors.New("booking is not in a state that allows this action")
	ErrGigMissing    = errors.New("booking has no linked gig")
	ErrGigNotStarted = errors.New("gig has not started yet")
)

// Cancellation reasons recorded by the two artist-side cancel paths.
const (
	ReasonDeclined  = "Declined by artist"
	ReasonCancelled = "Cancelled by artist"
)

// Transition describes the effect of a validated action. A zero NewStatus
// means the booking row itself is unchanged (publish_now only touches the
// gig). ClearCancellation resets stale cancel fields left from an earlier
// declined flow.
type Transition struct {
	NewStatus         string
	ConfirmedAt       *time.Time
	CancelledAt       *time.Time
	CancelReason      string
	ClearCancellation bool
	PublishGig        bool
}

// Apply checks the guards for one action against the booking's current
// state and returns the transition to persist. The booking and gig are not
// mutated. Initiator guards are checked before state guards so that acting
// on someone else's flow fails with ErrNotAllowed regardless of status.
func Apply(action string, b *model.Booking, g *model.Gig, callerID uint64, now time.Time) (*Transition, error) {
	switch action {
	case ActionAcceptInvite:
		if b.BookedBy == callerID {
			return nil, ErrNotAllowed
		}
		if b.Status != model.BookingStatusPending {
			return nil, ErrInvalidState
		}
		stamp := now.UTC()
		return &Transition{
			NewStatus:         model.BookingStatusConfirmed,
			ConfirmedAt:       &stamp,
			ClearCancellation: true,
		}, nil

	case ActionDeclineInvite:
		if b.BookedBy == callerID {
			return nil, ErrNotAllowed
		}
		if b.Status != model.BookingStatusPending {
			return nil, ErrInvalidState
		}
		stamp := now.UTC()
		return &Transition{
			NewStatus:    model.BookingStatusCancelled,
			CancelledAt:  &stamp,
			CancelReason: ReasonDeclined,
		}, nil

	case ActionCancelRequest:
		if b.BookedBy != callerID {
			return nil, ErrNotAllowed
		}
		if b.Status != model.BookingStatusPending {
			return nil, ErrInvalidState
		}
		stamp := now.UTC()
		return &Transition{
			NewStatus:    model.BookingStatusCancelled,
			CancelledAt:  &stamp,
			CancelReason: ReasonCancelled,
		}, nil

	case ActionMarkCompleted:
		if b.Status != model.BookingStatusConfirmed {
			return nil, ErrInvalidState
		}
		if g == nil {
			return nil, ErrGigMissing
		}
		if !g.StartsAt.Before(now) {
			return nil, ErrGigNotStarted
		}
		return &Transition{NewStatus: model.BookingStatusCompleted}, nil

	case ActionPublishNow:
		if b.BookedBy != callerID {
			return nil, ErrNotAllowed
		}
		if g == nil {
			return nil, ErrGigMissing
		}
		return &Transition{PublishGig: true}, nil
	}
	return nil, ErrUnknownAction
}
