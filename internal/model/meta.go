package model

import "time"

// Publish modes carried in GigMeta.Publish.
const (
	PublishModeImmediate = "immediate"
	PublishModeScheduled = "scheduled"
)

// Age restriction modes.
const (
	AgeModeUnknown         = "unknown"
	AgeModeHasRestrictions = "has_restrictions"
)

// Ticket availability modes after canonicalization.
const (
	TicketModeSkip         = "skip"
	TicketModeFullCapacity = "full_venue_capacity"
	TicketModeLessThanFull = "less_than_full_venue_capacity"
)

// PublishInfo describes when a gig becomes publicly visible. Immediate
// publishes stamp PublishedAt at validation time. Scheduled publishes keep
// the operator's local date/time plus the resolved UTC instant in
// PublishAt; once promotion runs, the block is rewritten to immediate form
// so a second pass is a no-op.
type PublishInfo struct {
	Mode        string     `json:"mode"`
	Date        string     `json:"date,omitempty"`         // YYYY-MM-DD as entered
	Time        string     `json:"time,omitempty"`         // HH:MM as entered
	PublishAt   *time.Time `json:"publish_at,omitempty"`   // resolved future instant (UTC)
	PublishedAt *time.Time `json:"published_at,omitempty"` // set once the gig went live
}

// AgeRestriction carries the validated restriction mode, the selected
// bands and the precomputed display string shown to the public.
type AgeRestriction struct {
	Mode       string   `json:"mode"`
	Selections []string `json:"selections,omitempty"`
	Display    string   `json:"display,omitempty"`
}

// TicketAvailability records how many tickets the gig sells. CustomCount
// is mandatory when Mode is TicketModeLessThanFull.
type TicketAvailability struct {
	Mode        string `json:"mode"`
	CustomCount *int   `json:"custom_count,omitempty"`
}

// VenueOverride holds the venue party's own claims about a gig's public
// details. It is written only through venue-side flows and consumed here
// read-only; any non-empty field (or the IsOfficial flag) marks the venue
// as having submitted data. All times are strings as entered by the venue
// so a malformed value degrades to the artist's data instead of failing.
type VenueOverride struct {
	Title             string `json:"title,omitempty"`
	Description       string `json:"description,omitempty"`
	ArtworkURL        string `json:"artwork_url,omitempty"`
	TicketSummary     string `json:"ticket_summary,omitempty"`
	EntryRequirements string `json:"entry_requirements,omitempty"`
	DoorsOpen         string `json:"doors_open,omitempty"`
	SetStart          string `json:"set_start,omitempty"`
	SetEnd            string `json:"set_end,omitempty"`
	StartsAt          string `json:"starts_at,omitempty"` // RFC3339 when valid
	EndsAt            string `json:"ends_at,omitempty"`   // RFC3339 when valid
	VenueName         string `json:"venue_name,omitempty"`
	VenueAddress      string `json:"venue_address,omitempty"`
	IsOfficial        bool   `json:"is_official,omitempty"`
}

// Empty reports whether no override field carries data. IsOfficial alone
// still counts as a venue submission.
func (o *VenueOverride) Empty() bool {
	if o == nil {
		return true
	}
	return o.Title == "" && o.Description == "" && o.ArtworkURL == "" &&
		o.TicketSummary == "" && o.EntryRequirements == "" && o.DoorsOpen == "" &&
		o.SetStart == "" && o.SetEnd == "" && o.StartsAt == "" && o.EndsAt == "" &&
		o.VenueName == "" && o.VenueAddress == "" && !o.IsOfficial
}

// GigMeta is the typed metadata block stored in the gigs.meta JSON column.
// It replaces the free-form map the upstream forms write into with explicit
// optional sub-structures validated once at the boundary.
type GigMeta struct {
	GigType           string              `json:"gig_type,omitempty"` // in_person | streaming
	StreamURL         string              `json:"stream_url,omitempty"`
	ArtworkURL        string              `json:"artwork_url,omitempty"`
	TicketSummary     string              `json:"ticket_summary,omitempty"`
	EntryRequirements string              `json:"entry_requirements,omitempty"`
	DoorsOpen         string              `json:"doors_open,omitempty"` // HH:MM local
	SetStart          string              `json:"set_start,omitempty"`  // HH:MM local
	SetEnd            string              `json:"set_end,omitempty"`    // HH:MM local
	AgeRestriction    *AgeRestriction     `json:"age_restriction,omitempty"`
	Tickets           *TicketAvailability `json:"tickets,omitempty"`
	Publish           *PublishInfo        `json:"publish,omitempty"`
	VenueOverride     *VenueOverride      `json:"venue_override,omitempty"`
	OtherPerformers   []string            `json:"other_performers,omitempty"`
	AgreedDate        string              `json:"agreed_date,omitempty"` // YYYY-MM-DD
	VenueName         string              `json:"venue_name,omitempty"`  // artist-supplied fallback
	VenueAddress      string              `json:"venue_address,omitempty"`
}

// PublishDue reports whether a scheduled publish instant has elapsed.
// Immediate blocks and already-published blocks are never due.
func (m *GigMeta) PublishDue(now time.Time) bool {
	p := m.Publish
	if p == nil || p.Mode != PublishModeScheduled || p.PublishAt == nil {
		return false
	}
	return !p.PublishAt.After(now)
}

// Promote rewrites the publish block into its post-publication form:
// immediate mode, schedule cleared, PublishedAt stamped. Calling it again
// leaves the block unchanged, which is what makes scheduler passes
// idempotent.
func (m *GigMeta) Promote(now time.Time) {
	if m.Publish == nil {
		m.Publish = &PublishInfo{}
	}
	if m.Publish.Mode == PublishModeImmediate && m.Publish.PublishedAt != nil {
		return
	}
	stamp := now.UTC()
	m.Publish.Mode = PublishModeImmediate
	m.Publish.Date = ""
	m.Publish.Time = ""
	m.Publish.PublishAt = nil
	m.Publish.PublishedAt = &stamp
}
