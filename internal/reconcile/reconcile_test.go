package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/gigbook/internal/model"
)

func artistSide() ArtistSubmission {
	return ArtistSubmission{
		Title:         "Acoustic Night",
		Description:   "Stripped-back set",
		ArtworkURL:    "https://img.example.com/a.jpg",
		TicketSummary: "Tickets on the door",
		DoorsOpen:     "19:00",
		SetStart:      "20:00",
		SetEnd:        "22:00",
		StartsAt:      time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC),
	}
}

func TestResolveSourceOfTruth(t *testing.T) {
	t.Run("artist only", func(t *testing.T) {
		d := Resolve(Input{Artist: artistSide()})
		assert.Equal(t, SourceArtist, d.SourceOfTruth)
		assert.Equal(t, MergeArtistOnly, d.MergeStatus)
		assert.Equal(t, "Acoustic Night", d.Title)
	})

	t.Run("venue initiated without submission", func(t *testing.T) {
		d := Resolve(Input{Artist: artistSide(), VenueInitiated: true})
		assert.Equal(t, SourceVenue, d.SourceOfTruth)
		assert.Equal(t, MergeVenueOnly, d.MergeStatus)
		// With nothing submitted, every field still falls back to the artist.
		assert.Equal(t, "Acoustic Night", d.Title)
		assert.Equal(t, "20:00", d.SetStart)
	})

	t.Run("venue submission flips source and merges", func(t *testing.T) {
		d := Resolve(Input{
			Artist:   artistSide(),
			Override: &model.VenueOverride{Title: "Acoustic Night (Official)"},
		})
		assert.Equal(t, SourceVenue, d.SourceOfTruth)
		assert.Equal(t, MergeMerged, d.MergeStatus)
		assert.Equal(t, "Acoustic Night (Official)", d.Title)
	})

	t.Run("venue initiated with submission is merged", func(t *testing.T) {
		d := Resolve(Input{
			Artist:         artistSide(),
			Override:       &model.VenueOverride{DoorsOpen: "18:30"},
			VenueInitiated: true,
		})
		assert.Equal(t, MergeMerged, d.MergeStatus)
		assert.Equal(t, "18:30", d.DoorsOpen)
	})
}

func TestResolvePerFieldFallback(t *testing.T) {
	d := Resolve(Input{
		Artist: artistSide(),
		Override: &model.VenueOverride{
			Title: "House Show",
			// ArtworkURL deliberately unset.
		},
	})
	assert.Equal(t, "House Show", d.Title)
	assert.Equal(t, "https://img.example.com/a.jpg", d.ArtworkURL)
	assert.Equal(t, "Stripped-back set", d.Description)
}

func TestResolveInstants(t *testing.T) {
	a := artistSide()

	t.Run("valid override replaces schedule", func(t *testing.T) {
		d := Resolve(Input{
			Artist:   a,
			Override: &model.VenueOverride{StartsAt: "2026-09-12T20:30:00Z"},
		})
		assert.Equal(t, time.Date(2026, 9, 12, 20, 30, 0, 0, time.UTC), d.StartsAt)
	})

	t.Run("malformed override degrades to artist schedule", func(t *testing.T) {
		d := Resolve(Input{
			Artist:   a,
			Override: &model.VenueOverride{StartsAt: "next friday", Title: "x"},
		})
		assert.True(t, d.StartsAt.Equal(a.StartsAt))
	})
}

func TestResolveVenueIdentity(t *testing.T) {
	t.Run("placeholders when nobody supplied anything", func(t *testing.T) {
		d := Resolve(Input{Artist: ArtistSubmission{Title: "x", StartsAt: time.Now()}})
		assert.Equal(t, PlaceholderVenueName, d.VenueName)
		assert.Equal(t, PlaceholderAddress, d.VenueAddress)
	})

	t.Run("venue row beats override beats artist", func(t *testing.T) {
		a := artistSide()
		a.VenueName = "The Old Crown (maybe)"
		a.VenueAddress = "somewhere on the high street"
		d := Resolve(Input{
			Artist:   a,
			Override: &model.VenueOverride{VenueName: "The Old Crown"},
			Venue:    &VenueIdentity{Name: "The Old Crown Tavern", Address: "1 High St, Leeds, UK"},
		})
		assert.Equal(t, "The Old Crown Tavern", d.VenueName)
		assert.Equal(t, "1 High St, Leeds, UK", d.VenueAddress)
	})

	t.Run("echoed placeholder is ignored", func(t *testing.T) {
		a := artistSide()
		a.VenueName = "The Old Crown"
		a.VenueAddress = "address unavailable" // form echo, any case
		d := Resolve(Input{Artist: a})
		assert.Equal(t, "The Old Crown", d.VenueName)
		assert.Equal(t, PlaceholderAddress, d.VenueAddress)
	})
}

func TestTileFor(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	a := artistSide()
	d := Resolve(Input{Artist: a})

	t.Run("set times compose with resolved date", func(t *testing.T) {
		tile := TileFor(d, a, []string{"The Openers"}, london)
		// 20:00 BST on 2026-09-12 is 19:00 UTC.
		assert.Equal(t, time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC), tile.StartsAt)
		require.NotNil(t, tile.EndsAt)
		assert.Equal(t, time.Date(2026, 9, 12, 21, 0, 0, 0, time.UTC), tile.EndsAt.UTC())
		assert.True(t, tile.HasOtherArtists)
		assert.Equal(t, PolicyArtistWins, tile.Policy)
	})

	t.Run("missing set times keep resolved instants", func(t *testing.T) {
		bare := a
		bare.SetStart = ""
		bare.SetEnd = ""
		tile := TileFor(d, bare, nil, london)
		assert.True(t, tile.StartsAt.Equal(d.StartsAt))
		assert.Nil(t, tile.EndsAt)
		assert.False(t, tile.HasOtherArtists)
	})

	t.Run("venue source flips policy", func(t *testing.T) {
		dv := Resolve(Input{Artist: a, VenueInitiated: true})
		tile := TileFor(dv, a, nil, london)
		assert.Equal(t, PolicyVenueWins, tile.Policy)
	})
}
