// Package reconcile merges the artist's and the venue's independent
// descriptions of the same gig into one public display record and one
// artist-facing tile. The resolver is pure and its output is never
// persisted: both parties' stored submissions stay untouched and auditable,
// and every read recomputes the merge from scratch.
package reconcile

import (
	"strings"
	"time"

	"github.com/stagelink/gigbook/internal/model"
)

// Source-of-truth and merge-status values exposed on resolved displays.
const (
	SourceArtist = "artist"
	SourceVenue  = "venue"

	MergeArtistOnly = "artist_only"
	MergeVenueOnly  = "venue_only"
	MergeMerged     = "merged"
)

// Placeholders used when no party supplied venue identity data.
const (
	PlaceholderVenueName = "Venue TBD"
	PlaceholderAddress   = "Address unavailable"
)

// Policy strings surfaced on artist tiles so the dashboard can explain
// whose data the public currently sees.
const (
	PolicyVenueWins  = "Venue data currently supersedes artist data for public display."
	PolicyArtistWins = "Artist data is displayed until venue official data is provided."
)

// ArtistSubmission is the artist's side of the merge, extracted from the
// gig row and its metadata.
type ArtistSubmission struct {
	Title             string
	Description       string
	ArtworkURL        string
	TicketSummary     string
	EntryRequirements string
	DoorsOpen         string // HH:MM local
	SetStart          string // HH:MM local
	SetEnd            string // HH:MM local
	StartsAt          time.Time
	EndsAt            *time.Time
	VenueName         string // artist-supplied fallback, not the venue row
	VenueAddress      string
}

// VenueIdentity is the canonical name/address from the linked Venue row.
type VenueIdentity struct {
	Name    string
	Address string
}

// Input bundles everything the resolver needs for one gig.
type Input struct {
	Artist         ArtistSubmission
	Override       *model.VenueOverride // venue's claims from gig metadata, may be nil
	Venue          *VenueIdentity       // linked venue row, may be nil
	VenueInitiated bool                 // booking was created by someone other than the artist
}

// Display is the resolved public projection for one gig.
type Display struct {
	SourceOfTruth     string     `json:"source_of_truth"`
	MergeStatus       string     `json:"merge_status"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	ArtworkURL        string     `json:"artwork_url,omitempty"`
	TicketSummary     string     `json:"ticket_summary,omitempty"`
	EntryRequirements string     `json:"entry_requirements,omitempty"`
	DoorsOpen         string     `json:"doors_open,omitempty"`
	SetStart          string     `json:"set_start,omitempty"`
	SetEnd            string     `json:"set_end,omitempty"`
	StartsAt          time.Time  `json:"starts_at"`
	EndsAt            *time.Time `json:"ends_at,omitempty"`
	VenueName         string     `json:"venue_name"`
	VenueAddress      string     `json:"venue_address"`
}

// Tile is the artist-specific projection shown on the artist's own
// dashboard. Start/end are recomputed per performer from the resolved
// calendar date and the artist's declared set times.
type Tile struct {
	Display         Display    `json:"display"`
	StartsAt        time.Time  `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at,omitempty"`
	HasOtherArtists bool       `json:"has_other_artists"`
	OtherPerformers []string   `json:"other_performers,omitempty"`
	Policy          string     `json:"policy"`
}

// pick returns the venue's value when the venue is source of truth and
// actually supplied one, otherwise the artist's value. This per-field
// fallback is what keeps a partial venue submission from blanking out the
// artist's remaining fields.
func pick(venueWins bool, venueVal, artistVal string) string {
	if venueWins && strings.TrimSpace(venueVal) != "" {
		return venueVal
	}
	return artistVal
}

// present filters empty strings and strings that merely repeat the
// "unavailable" placeholder, which upstream forms sometimes echo back.
func present(s, placeholder string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, placeholder)
}

// Resolve computes the public display for one gig per the merge policy:
// the venue is source of truth as soon as it has submitted anything (or
// initiated the booking), but each display field still falls back to the
// artist's value when the venue left it empty.
func Resolve(in Input) Display {
	hasVenueSubmission := !in.Override.Empty()
	venueWins := hasVenueSubmission || in.VenueInitiated

	d := Display{SourceOfTruth: SourceArtist, MergeStatus: MergeArtistOnly}
	if venueWins {
		d.SourceOfTruth = SourceVenue
		d.MergeStatus = MergeVenueOnly
	}
	if hasVenueSubmission {
		d.MergeStatus = MergeMerged
	}

	o := in.Override
	if o == nil {
		o = &model.VenueOverride{}
	}
	d.Title = pick(venueWins, o.Title, in.Artist.Title)
	d.Description = pick(venueWins, o.Description, in.Artist.Description)
	d.ArtworkURL = pick(venueWins, o.ArtworkURL, in.Artist.ArtworkURL)
	d.TicketSummary = pick(venueWins, o.TicketSummary, in.Artist.TicketSummary)
	d.EntryRequirements = pick(venueWins, o.EntryRequirements, in.Artist.EntryRequirements)
	d.DoorsOpen = pick(venueWins, o.DoorsOpen, in.Artist.DoorsOpen)
	d.SetStart = pick(venueWins, o.SetStart, in.Artist.SetStart)
	d.SetEnd = pick(venueWins, o.SetEnd, in.Artist.SetEnd)

	// Instants: a venue override only replaces the gig's own schedule when
	// it parses; a malformed value degrades to the artist's data.
	d.StartsAt = in.Artist.StartsAt
	d.EndsAt = in.Artist.EndsAt
	if venueWins {
		if t, err := time.Parse(time.RFC3339, o.StartsAt); err == nil && o.StartsAt != "" {
			d.StartsAt = t
		}
		if t, err := time.Parse(time.RFC3339, o.EndsAt); err == nil && o.EndsAt != "" {
			d.EndsAt = &t
		}
	}

	// Venue identity resolves through a fixed precedence chain independent
	// of source of truth: the venue row is canonical, then the override,
	// then whatever the artist typed, then the placeholders.
	d.VenueName = PlaceholderVenueName
	d.VenueAddress = PlaceholderAddress
	for _, cand := range []string{in.Artist.VenueName, o.VenueName, venueField(in.Venue).Name} {
		if present(cand, PlaceholderVenueName) {
			d.VenueName = cand
		}
	}
	for _, cand := range []string{in.Artist.VenueAddress, o.VenueAddress, venueField(in.Venue).Address} {
		if present(cand, PlaceholderAddress) {
			d.VenueAddress = cand
		}
	}
	return d
}

func venueField(v *VenueIdentity) VenueIdentity {
	if v == nil {
		return VenueIdentity{}
	}
	return *v
}

// TileFor derives the artist's own dashboard tile from a resolved display.
// The per-performer start/end combines the resolved calendar date with the
// artist's declared set times in the gig's timezone; if that composition
// fails the resolved instants are used as-is.
func TileFor(d Display, artist ArtistSubmission, performers []string, loc *time.Location) Tile {
	t := Tile{
		Display:         d,
		StartsAt:        d.StartsAt,
		EndsAt:          d.EndsAt,
		HasOtherArtists: len(performers) > 0,
		OtherPerformers: performers,
		Policy:          PolicyArtistWins,
	}
	if d.SourceOfTruth == SourceVenue {
		t.Policy = PolicyVenueWins
	}
	if loc == nil {
		loc = time.UTC
	}
	date := d.StartsAt.In(loc).Format("2006-01-02")
	if at, err := time.ParseInLocation("2006-01-02 15:04", date+" "+artist.SetStart, loc); err == nil && artist.SetStart != "" {
		t.StartsAt = at.UTC()
	}
	if at, err := time.ParseInLocation("2006-01-02 15:04", date+" "+artist.SetEnd, loc); err == nil && artist.SetEnd != "" {
		end := at.UTC()
		t.EndsAt = &end
	}
	return t
}
