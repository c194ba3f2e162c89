package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/stagelink/gigbook/internal/lifecycle"
	"github.com/stagelink/gigbook/internal/model"
)

// BookingRepo manages persistence for bookings, including the joined
// artist-listing query that drives the dashboard and the conditional
// status updates the lifecycle state machine relies on.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, gig_id, artist_id, venue_id, status, fee, currency, special_request,
	booked_by, booked_at, confirmed_at, cancelled_at, cancel_reason, created_at, updated_at`

func scanBooking(scan func(dest ...any) error) (*model.Booking, error) {
	var b model.Booking
	var venueID sql.NullInt64
	var confirmedAt, cancelledAt sql.NullTime
	var reason sql.NullString
	err := scan(&b.ID, &b.GigID, &b.ArtistID, &venueID, &b.Status, &b.Fee, &b.Currency,
		&b.SpecialRequest, &b.BookedBy, &b.BookedAt, &confirmedAt, &cancelledAt, &reason,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if venueID.Valid {
		id := uint64(venueID.Int64)
		b.VenueID = &id
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		b.ConfirmedAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	if reason.Valid {
		s := reason.String
		b.CancelReason = &s
	}
	return &b, nil
}

// CreateTx inserts a new booking within the caller's transaction and
// populates the generated ID plus DB defaults on the given struct.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	var venueID any
	if b.VenueID != nil {
		venueID = *b.VenueID
	}
	const q = `INSERT INTO bookings (gig_id, artist_id, venue_id, status, fee, currency, special_request, booked_by, booked_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.GigID, b.ArtistID, venueID, b.Status, b.Fee, b.Currency,
		b.SpecialRequest, b.BookedBy, b.BookedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = "SELECT " + bookingColumns + " FROM bookings WHERE id = ?"
	fresh, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID).Scan)
	if err != nil {
		return err
	}
	*b = *fresh
	return nil
}

// GetByID fetches a booking by ID. Returns ErrBookingNotFound when absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = "SELECT " + bookingColumns + " FROM bookings WHERE id = ?"
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByGigID fetches the booking linked to a gig. The engine creates
// exactly one booking per gig, so a point lookup is sufficient.
func (r *BookingRepo) GetByGigID(ctx context.Context, gigID uint64) (*model.Booking, error) {
	const q = "SELECT " + bookingColumns + " FROM bookings WHERE gig_id = ?"
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, gigID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// ApplyTransition writes a validated lifecycle transition with a
// conditional update keyed on the status the guards were checked against.
// Zero rows affected means another caller moved the booking first; that
// surfaces as ErrConflict so the handler can report 409 instead of
// silently double-applying.
func (r *BookingRepo) ApplyTransition(ctx context.Context, bookingID uint64, fromStatus string, tr *lifecycle.Transition) error {
	if tr.NewStatus == "" {
		return nil // publish_now: booking row unchanged
	}
	sets := []string{"status = ?", "updated_at = CURRENT_TIMESTAMP"}
	args := []any{tr.NewStatus}
	if tr.ConfirmedAt != nil {
		sets = append(sets, "confirmed_at = ?")
		args = append(args, tr.ConfirmedAt.UTC())
	}
	if tr.CancelledAt != nil {
		sets = append(sets, "cancelled_at = ?", "cancel_reason = ?")
		args = append(args, tr.CancelledAt.UTC(), tr.CancelReason)
	}
	if tr.ClearCancellation {
		sets = append(sets, "cancelled_at = NULL", "cancel_reason = NULL")
	}
	q := "UPDATE bookings SET " + strings.Join(sets, ", ") + " WHERE id = ? AND status = ?"
	args = append(args, bookingID, fromStatus)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// ArtistGigFilter narrows the artist listing. View is one of
// calendar | invites | requests | all; Statuses filters booking statuses;
// From/To bound the gig start instant.
type ArtistGigFilter struct {
	View     string
	Statuses []string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// ArtistGigRow is one joined row of the artist listing: the booking, its
// gig and the linked venue when one exists.
type ArtistGigRow struct {
	Booking *model.Booking
	Gig     *model.Gig
	Venue   *model.Venue
}

func (f *ArtistGigFilter) whereClause(artistID uint64) (string, []any) {
	conds := []string{"b.artist_id = ?"}
	args := []any{artistID}
	switch f.View {
	case "invites":
		conds = append(conds, "b.status = ?", "b.booked_by <> b.artist_id")
		args = append(args, model.BookingStatusPending)
	case "requests":
		conds = append(conds, "b.status = ?", "b.booked_by = b.artist_id")
		args = append(args, model.BookingStatusPending)
	case "calendar":
		conds = append(conds, "b.status IN (?, ?)")
		args = append(args, model.BookingStatusConfirmed, model.BookingStatusCompleted)
	}
	if len(f.Statuses) > 0 {
		ph := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			ph[i] = "?"
			args = append(args, s)
		}
		conds = append(conds, "b.status IN ("+strings.Join(ph, ", ")+")")
	}
	if f.From != nil {
		conds = append(conds, "g.starts_at >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		conds = append(conds, "g.starts_at < ?")
		args = append(args, f.To.UTC())
	}
	return strings.Join(conds, " AND "), args
}

// ListForArtist returns one page of the artist's bookings joined with
// their gigs and venues, ordered by gig start time, plus the total row
// count for pagination.
func (r *BookingRepo) ListForArtist(ctx context.Context, artistID uint64, f ArtistGigFilter) ([]ArtistGigRow, int, error) {
	where, args := f.whereClause(artistID)

	var total int
	countQ := "SELECT COUNT(*) FROM bookings b JOIN gigs g ON g.id = b.gig_id WHERE " + where
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := `SELECT b.id, b.gig_id, b.artist_id, b.venue_id, b.status, b.fee, b.currency, b.special_request,
	             b.booked_by, b.booked_at, b.confirmed_at, b.cancelled_at, b.cancel_reason, b.created_at, b.updated_at,
	             g.id, g.title, g.description, g.event_type, g.starts_at, g.ends_at, g.timezone, g.status, g.venue_id, g.meta, g.created_at, g.updated_at,
	             v.id, v.owner_id, v.name, v.address_line1, v.city, v.country, v.created_at, v.updated_at
	      FROM bookings b
	      JOIN gigs g ON g.id = b.gig_id
	      LEFT JOIN venues v ON v.id = g.venue_id
	      WHERE ` + where + `
	      ORDER BY g.starts_at, b.id
	      LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]ArtistGigRow, 0)
	for rows.Next() {
		var row ArtistGigRow
		var b model.Booking
		var g model.Gig
		var bVenueID, gVenueID sql.NullInt64
		var confirmedAt, cancelledAt, gEndsAt sql.NullTime
		var reason sql.NullString
		var meta []byte
		var vID, vOwnerID sql.NullInt64
		var vName, vLine1, vCity, vCountry sql.NullString
		var vCreated, vUpdated sql.NullTime
		if err := rows.Scan(
			&b.ID, &b.GigID, &b.ArtistID, &bVenueID, &b.Status, &b.Fee, &b.Currency, &b.SpecialRequest,
			&b.BookedBy, &b.BookedAt, &confirmedAt, &cancelledAt, &reason, &b.CreatedAt, &b.UpdatedAt,
			&g.ID, &g.Title, &g.Description, &g.EventType, &g.StartsAt, &gEndsAt, &g.Timezone, &g.Status, &gVenueID, &meta, &g.CreatedAt, &g.UpdatedAt,
			&vID, &vOwnerID, &vName, &vLine1, &vCity, &vCountry, &vCreated, &vUpdated,
		); err != nil {
			return nil, 0, err
		}
		if bVenueID.Valid {
			id := uint64(bVenueID.Int64)
			b.VenueID = &id
		}
		if confirmedAt.Valid {
			t := confirmedAt.Time
			b.ConfirmedAt = &t
		}
		if cancelledAt.Valid {
			t := cancelledAt.Time
			b.CancelledAt = &t
		}
		if reason.Valid {
			s := reason.String
			b.CancelReason = &s
		}
		if gEndsAt.Valid {
			t := gEndsAt.Time
			g.EndsAt = &t
		}
		if gVenueID.Valid {
			id := uint64(gVenueID.Int64)
			g.VenueID = &id
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &g.Meta); err != nil {
				return nil, 0, err
			}
		}
		if vID.Valid {
			row.Venue = &model.Venue{
				ID:           uint64(vID.Int64),
				OwnerID:      uint64(vOwnerID.Int64),
				Name:         vName.String,
				AddressLine1: vLine1.String,
				City:         vCity.String,
				Country:      vCountry.String,
				CreatedAt:    vCreated.Time,
				UpdatedAt:    vUpdated.Time,
			}
		}
		row.Booking = &b
		row.Gig = &g
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Summary holds the per-status booking counts shown alongside the artist
// listing.
type Summary struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
}

// CountsForArtist aggregates the artist's booking counts by status.
func (r *BookingRepo) CountsForArtist(ctx context.Context, artistID uint64) (Summary, error) {
	const q = "SELECT status, COUNT(*) FROM bookings WHERE artist_id = ? GROUP BY status"
	rows, err := r.db.QueryContext(ctx, q, artistID)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()
	var s Summary
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return Summary{}, err
		}
		switch status {
		case model.BookingStatusPending:
			s.Pending = n
		case model.BookingStatusConfirmed:
			s.Confirmed = n
		case model.BookingStatusCompleted:
			s.Completed = n
		}
	}
	return s, rows.Err()
}
