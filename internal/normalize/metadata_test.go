package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/gigbook/internal/model"
)

func TestAgeRestriction(t *testing.T) {
	t.Run("unknown mode passes through", func(t *testing.T) {
		age, err := AgeRestriction("", nil)
		require.NoError(t, err)
		assert.Equal(t, model.AgeModeUnknown, age.Mode)
		assert.Empty(t, age.Display)
	})

	t.Run("all ages displays family friendly", func(t *testing.T) {
		age, err := AgeRestriction(model.AgeModeHasRestrictions, []string{"All ages"})
		require.NoError(t, err)
		assert.Equal(t, "Family Friendly", age.Display)
	})

	t.Run("bands join with trailing period", func(t *testing.T) {
		age, err := AgeRestriction(model.AgeModeHasRestrictions, []string{"Over 18s", "Under 21s"})
		require.NoError(t, err)
		assert.Equal(t, "Over 18s. Under 21s.", age.Display)
		assert.Equal(t, []string{"Over 18s", "Under 21s"}, age.Selections)
	})

	t.Run("all ages is exclusive", func(t *testing.T) {
		_, err := AgeRestriction(model.AgeModeHasRestrictions, []string{"All ages", "Over 18s"})
		assert.Error(t, err)
	})

	t.Run("one over band at most", func(t *testing.T) {
		_, err := AgeRestriction(model.AgeModeHasRestrictions, []string{"Over 18s", "Over 21s"})
		assert.Error(t, err)
	})

	t.Run("one under band at most", func(t *testing.T) {
		_, err := AgeRestriction(model.AgeModeHasRestrictions, []string{"Under 18s", "Under 21s"})
		assert.Error(t, err)
	})

	t.Run("empty selection rejected", func(t *testing.T) {
		_, err := AgeRestriction(model.AgeModeHasRestrictions, nil)
		assert.Error(t, err)
	})

	t.Run("off-catalog value rejected", func(t *testing.T) {
		_, err := AgeRestriction(model.AgeModeHasRestrictions, []string{"Over 30s"})
		assert.Error(t, err)
	})
}

func TestTicketAvailability(t *testing.T) {
	ta, err := TicketAvailability("", nil)
	require.NoError(t, err)
	assert.Equal(t, model.TicketModeSkip, ta.Mode)

	// Legacy aliases canonicalize.
	ta, err = TicketAvailability("full_capacity", nil)
	require.NoError(t, err)
	assert.Equal(t, model.TicketModeFullCapacity, ta.Mode)

	n := 150
	ta, err = TicketAvailability("custom", &n)
	require.NoError(t, err)
	assert.Equal(t, model.TicketModeLessThanFull, ta.Mode)
	require.NotNil(t, ta.CustomCount)
	assert.Equal(t, 150, *ta.CustomCount)

	_, err = TicketAvailability("custom", nil)
	assert.Error(t, err)

	zero := 0
	_, err = TicketAvailability(model.TicketModeLessThanFull, &zero)
	assert.Error(t, err)

	_, err = TicketAvailability("scalped", nil)
	assert.Error(t, err)
}

func TestPublishSchedule(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("immediate stamps published_at", func(t *testing.T) {
		p, err := PublishSchedule("", "", "", london, now)
		require.NoError(t, err)
		assert.Equal(t, model.PublishModeImmediate, p.Mode)
		require.NotNil(t, p.PublishedAt)
		assert.True(t, p.PublishedAt.Equal(now))
		assert.Nil(t, p.PublishAt)
	})

	t.Run("scheduled composes local instant", func(t *testing.T) {
		p, err := PublishSchedule(model.PublishModeScheduled, "2026-06-02", "09:30", london, now)
		require.NoError(t, err)
		assert.Equal(t, model.PublishModeScheduled, p.Mode)
		require.NotNil(t, p.PublishAt)
		// 09:30 BST is 08:30 UTC.
		assert.Equal(t, time.Date(2026, 6, 2, 8, 30, 0, 0, time.UTC), p.PublishAt.UTC())
		assert.Nil(t, p.PublishedAt)
	})

	t.Run("time defaults to midnight", func(t *testing.T) {
		p, err := PublishSchedule(model.PublishModeScheduled, "2026-06-02", "", london, now)
		require.NoError(t, err)
		assert.Equal(t, "00:00", p.Time)
	})

	t.Run("past instant rejected", func(t *testing.T) {
		_, err := PublishSchedule(model.PublishModeScheduled, "2026-05-31", "23:00", london, now)
		assert.Error(t, err)
	})

	t.Run("missing date rejected", func(t *testing.T) {
		_, err := PublishSchedule(model.PublishModeScheduled, "", "", london, now)
		assert.Error(t, err)
	})

	t.Run("garbage date rejected", func(t *testing.T) {
		_, err := PublishSchedule(model.PublishModeScheduled, "02/06/2026", "", london, now)
		assert.Error(t, err)
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		_, err := PublishSchedule("whenever", "", "", london, now)
		assert.Error(t, err)
	})
}
