package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDue(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	t.Run("nil publish block never due", func(t *testing.T) {
		m := &GigMeta{}
		assert.False(t, m.PublishDue(now))
	})

	t.Run("immediate never due", func(t *testing.T) {
		m := &GigMeta{Publish: &PublishInfo{Mode: PublishModeImmediate, PublishedAt: &past}}
		assert.False(t, m.PublishDue(now))
	})

	t.Run("scheduled in the past is due", func(t *testing.T) {
		m := &GigMeta{Publish: &PublishInfo{Mode: PublishModeScheduled, PublishAt: &past}}
		assert.True(t, m.PublishDue(now))
	})

	t.Run("publish instant equal to now is due", func(t *testing.T) {
		at := now
		m := &GigMeta{Publish: &PublishInfo{Mode: PublishModeScheduled, PublishAt: &at}}
		assert.True(t, m.PublishDue(now))
	})

	t.Run("scheduled in the future is not due", func(t *testing.T) {
		m := &GigMeta{Publish: &PublishInfo{Mode: PublishModeScheduled, PublishAt: &future}}
		assert.False(t, m.PublishDue(now))
	})

	t.Run("scheduled without instant is not due", func(t *testing.T) {
		m := &GigMeta{Publish: &PublishInfo{Mode: PublishModeScheduled}}
		assert.False(t, m.PublishDue(now))
	})
}

func TestPromote(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

	t.Run("scheduled block rewritten to immediate", func(t *testing.T) {
		at := now.Add(-time.Hour)
		m := &GigMeta{Publish: &PublishInfo{
			Mode:      PublishModeScheduled,
			Date:      "2026-04-10",
			Time:      "11:00",
			PublishAt: &at,
		}}
		m.Promote(now)
		assert.Equal(t, PublishModeImmediate, m.Publish.Mode)
		assert.Empty(t, m.Publish.Date)
		assert.Empty(t, m.Publish.Time)
		assert.Nil(t, m.Publish.PublishAt)
		require.NotNil(t, m.Publish.PublishedAt)
		assert.True(t, m.Publish.PublishedAt.Equal(now))
	})

	t.Run("second promotion keeps original stamp", func(t *testing.T) {
		at := now.Add(-time.Hour)
		m := &GigMeta{Publish: &PublishInfo{Mode: PublishModeScheduled, PublishAt: &at}}
		m.Promote(now)
		first := *m.Publish.PublishedAt
		m.Promote(now.Add(time.Hour))
		assert.True(t, m.Publish.PublishedAt.Equal(first))
	})

	t.Run("nil publish block gets stamped", func(t *testing.T) {
		m := &GigMeta{}
		m.Promote(now)
		require.NotNil(t, m.Publish)
		assert.Equal(t, PublishModeImmediate, m.Publish.Mode)
		require.NotNil(t, m.Publish.PublishedAt)
	})
}

func TestVenueOverrideEmpty(t *testing.T) {
	var nilOverride *VenueOverride
	assert.True(t, nilOverride.Empty())
	assert.True(t, (&VenueOverride{}).Empty())
	assert.False(t, (&VenueOverride{DoorsOpen: "19:00"}).Empty())
	// The official flag alone counts as a submission.
	assert.False(t, (&VenueOverride{IsOfficial: true}).Empty())
}
