package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking statuses. Transitions are one-directional: PENDING may move to
// CONFIRMED or CANCELLED, CONFIRMED may move to COMPLETED. Nothing leaves
// CANCELLED or COMPLETED.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusCompleted = "COMPLETED"
)

// Booking links one artist to one gig and optionally one venue. BookedBy
// records which user initiated the booking; lifecycle guards compare it
// against the current caller to tell invites (venue-initiated) apart from
// requests (artist-initiated).
//
// Fields:
//  ID             – primary key identifier.
//  GigID          – gig being booked.
//  ArtistID       – artist performing the gig.
//  VenueID        – venue hosting it, when known.
//  Status         – one of the BookingStatus* constants.
//  Fee            – agreed fee, non-negative, capped, 2 decimal places.
//  Currency       – ISO code from the supported set.
//  SpecialRequest – free-text rider/request from the booking party.
//  BookedBy       – user ID of whoever created the booking.
//  BookedAt       – when the booking was created.
//  ConfirmedAt    – when it was confirmed, if ever.
//  CancelledAt    – when it was cancelled, if ever.
//  CancelReason   – human-readable reason recorded on cancellation.
type Booking struct {
	ID             uint64          // bookings.id
	GigID          uint64          // bookings.gig_id
	ArtistID       uint64          // bookings.artist_id
	VenueID        *uint64         // bookings.venue_id (nullable)
	Status         string          // bookings.status
	Fee            decimal.Decimal // bookings.fee
	Currency       string          // bookings.currency
	SpecialRequest string          // bookings.special_request
	BookedBy       uint64          // bookings.booked_by
	BookedAt       time.Time       // bookings.booked_at
	ConfirmedAt    *time.Time      // bookings.confirmed_at (nullable)
	CancelledAt    *time.Time      // bookings.cancelled_at (nullable)
	CancelReason   *string         // bookings.cancel_reason (nullable)
	CreatedAt      time.Time       // bookings.created_at
	UpdatedAt      time.Time       // bookings.updated_at
}
