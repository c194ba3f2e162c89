package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/gigbook/internal/model"
)

const (
	artistID = uint64(7)
	venueID  = uint64(42)
)

func pendingInvite() *model.Booking {
	// A venue invited the artist: booked_by is not the artist.
	return &model.Booking{
		ID:       1,
		GigID:    10,
		ArtistID: artistID,
		BookedBy: venueID,
		Status:   model.BookingStatusPending,
	}
}

func pendingRequest() *model.Booking {
	// The artist requested the slot themselves.
	return &model.Booking{
		ID:       2,
		GigID:    11,
		ArtistID: artistID,
		BookedBy: artistID,
		Status:   model.BookingStatusPending,
	}
}

func TestAcceptInvite(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("recipient accepts", func(t *testing.T) {
		tr, err := Apply(ActionAcceptInvite, pendingInvite(), nil, artistID, now)
		require.NoError(t, err)
		assert.Equal(t, model.BookingStatusConfirmed, tr.NewStatus)
		require.NotNil(t, tr.ConfirmedAt)
		assert.True(t, tr.ConfirmedAt.Equal(now))
		assert.True(t, tr.ClearCancellation)
	})

	t.Run("initiator cannot accept own invite", func(t *testing.T) {
		_, err := Apply(ActionAcceptInvite, pendingInvite(), nil, venueID, now)
		assert.ErrorIs(t, err, ErrNotAllowed)
	})

	t.Run("initiator guard runs before state guard", func(t *testing.T) {
		b := pendingInvite()
		b.Status = model.BookingStatusConfirmed
		_, err := Apply(ActionAcceptInvite, b, nil, venueID, now)
		assert.ErrorIs(t, err, ErrNotAllowed)
	})

	t.Run("only pending accepts", func(t *testing.T) {
		for _, status := range []string{model.BookingStatusConfirmed, model.BookingStatusCancelled, model.BookingStatusCompleted} {
			b := pendingInvite()
			b.Status = status
			_, err := Apply(ActionAcceptInvite, b, nil, artistID, now)
			assert.ErrorIs(t, err, ErrInvalidState, status)
		}
	})
}

func TestDeclineInvite(t *testing.T) {
	now := time.Now().UTC()

	tr, err := Apply(ActionDeclineInvite, pendingInvite(), nil, artistID, now)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, tr.NewStatus)
	assert.Equal(t, ReasonDeclined, tr.CancelReason)
	require.NotNil(t, tr.CancelledAt)

	_, err = Apply(ActionDeclineInvite, pendingInvite(), nil, venueID, now)
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestCancelRequest(t *testing.T) {
	now := time.Now().UTC()

	tr, err := Apply(ActionCancelRequest, pendingRequest(), nil, artistID, now)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, tr.NewStatus)
	assert.Equal(t, ReasonCancelled, tr.CancelReason)

	// Only the initiator may withdraw; the other party declines instead.
	_, err = Apply(ActionCancelRequest, pendingInvite(), nil, artistID, now)
	assert.ErrorIs(t, err, ErrNotAllowed)

	b := pendingRequest()
	b.Status = model.BookingStatusConfirmed
	_, err = Apply(ActionCancelRequest, b, nil, artistID, now)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestMarkCompleted(t *testing.T) {
	now := time.Date(2026, 5, 1, 22, 0, 0, 0, time.UTC)

	confirmed := func() *model.Booking {
		b := pendingInvite()
		b.Status = model.BookingStatusConfirmed
		return b
	}

	t.Run("past gig completes", func(t *testing.T) {
		g := &model.Gig{ID: 10, StartsAt: now.Add(-3 * time.Hour)}
		tr, err := Apply(ActionMarkCompleted, confirmed(), g, artistID, now)
		require.NoError(t, err)
		assert.Equal(t, model.BookingStatusCompleted, tr.NewStatus)
	})

	t.Run("future gig rejected", func(t *testing.T) {
		g := &model.Gig{ID: 10, StartsAt: now.Add(time.Hour)}
		_, err := Apply(ActionMarkCompleted, confirmed(), g, artistID, now)
		assert.ErrorIs(t, err, ErrGigNotStarted)
	})

	t.Run("gig starting exactly now rejected", func(t *testing.T) {
		g := &model.Gig{ID: 10, StartsAt: now}
		_, err := Apply(ActionMarkCompleted, confirmed(), g, artistID, now)
		assert.ErrorIs(t, err, ErrGigNotStarted)
	})

	t.Run("missing gig rejected", func(t *testing.T) {
		_, err := Apply(ActionMarkCompleted, confirmed(), nil, artistID, now)
		assert.ErrorIs(t, err, ErrGigMissing)
	})

	t.Run("unconfirmed booking rejected", func(t *testing.T) {
		g := &model.Gig{ID: 10, StartsAt: now.Add(-time.Hour)}
		_, err := Apply(ActionMarkCompleted, pendingInvite(), g, artistID, now)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestPublishNow(t *testing.T) {
	now := time.Now().UTC()
	g := &model.Gig{ID: 11, Status: model.GigStatusDraft, StartsAt: now.Add(48 * time.Hour)}

	tr, err := Apply(ActionPublishNow, pendingRequest(), g, artistID, now)
	require.NoError(t, err)
	assert.True(t, tr.PublishGig)
	// The booking row itself is untouched.
	assert.Empty(t, tr.NewStatus)

	_, err = Apply(ActionPublishNow, pendingInvite(), g, artistID, now)
	assert.ErrorIs(t, err, ErrNotAllowed)

	_, err = Apply(ActionPublishNow, pendingRequest(), nil, artistID, now)
	assert.ErrorIs(t, err, ErrGigMissing)
}

func TestUnknownAction(t *testing.T) {
	_, err := Apply("explode", pendingInvite(), nil, artistID, time.Now())
	assert.ErrorIs(t, err, ErrUnknownAction)
}
