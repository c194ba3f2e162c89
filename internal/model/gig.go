package model

import "time"

// Gig statuses. A gig starts life as a hidden draft and is promoted to
// PUBLISHED exactly once, either immediately on creation or when its
// scheduled publish instant elapses. CANCELLED and COMPLETED are terminal.
const (
	GigStatusDraft     = "DRAFT"
	GigStatusPublished = "PUBLISHED"
	GigStatusCancelled = "CANCELLED"
	GigStatusCompleted = "COMPLETED"
)

// Gig event types accepted by the API. Values are stored lowercase.
const (
	EventTypeConcert    = "concert"
	EventTypeFestival   = "festival"
	EventTypePrivate    = "private"
	EventTypeOpenMic    = "open_mic"
	EventTypeLivestream = "livestream"
)

// Gig subtypes carried in the metadata block.
const (
	GigTypeInPerson  = "in_person"
	GigTypeStreaming = "streaming"
)

// Gig represents a schedulable live or streamed performance event.
// Artist-authored display fields live on the row itself; venue-authored
// claims live inside Meta.VenueOverride so that neither party's edits can
// overwrite the other's.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – artist-supplied title.
//  Description – artist-supplied description.
//  EventType   – one of the EventType* constants.
//  StartsAt    – when the performance begins (UTC).
//  EndsAt      – when it ends; optional, must be after StartsAt and on the
//                same calendar date in the gig's timezone.
//  Timezone    – IANA zone identifier the gig is anchored to.
//  Status      – one of the GigStatus* constants.
//  VenueID     – optional reference to a Venue row.
//  Meta        – typed metadata block (publishing, tickets, age
//                restriction, venue override, performers).
type Gig struct {
	ID          uint64     // gigs.id
	Title       string     // gigs.title
	Description string     // gigs.description
	EventType   string     // gigs.event_type
	StartsAt    time.Time  // gigs.starts_at
	EndsAt      *time.Time // gigs.ends_at (nullable)
	Timezone    string     // gigs.timezone
	Status      string     // gigs.status
	VenueID     *uint64    // gigs.venue_id (nullable)
	Meta        GigMeta    // gigs.meta (JSON)
	CreatedAt   time.Time  // gigs.created_at
	UpdatedAt   time.Time  // gigs.updated_at
}
