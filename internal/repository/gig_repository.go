package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/stagelink/gigbook/internal/model"
)

// GigRepo manages persistence for gigs. The gigs.meta column is a JSON
// document holding the typed metadata block; it is (un)marshalled at this
// boundary so everything above works with model.GigMeta.
type GigRepo struct {
	db *sql.DB
}

// NewGigRepo returns a GigRepo bound to the given database.
func NewGigRepo(db *sql.DB) *GigRepo { return &GigRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *GigRepo) DB() *sql.DB { return r.db }

const gigColumns = "id, title, description, event_type, starts_at, ends_at, timezone, status, venue_id, meta, created_at, updated_at"

func scanGig(scan func(dest ...any) error) (*model.Gig, error) {
	var g model.Gig
	var endsAt sql.NullTime
	var venueID sql.NullInt64
	var meta []byte
	err := scan(&g.ID, &g.Title, &g.Description, &g.EventType, &g.StartsAt, &endsAt,
		&g.Timezone, &g.Status, &venueID, &meta, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if endsAt.Valid {
		t := endsAt.Time
		g.EndsAt = &t
	}
	if venueID.Valid {
		id := uint64(venueID.Int64)
		g.VenueID = &id
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &g.Meta); err != nil {
			return nil, err
		}
	}
	return &g, nil
}

func gigArgs(g *model.Gig) (endsAt, venueID, meta any, err error) {
	endsAt, venueID = nil, nil
	if g.EndsAt != nil {
		endsAt = g.EndsAt.UTC()
	}
	if g.VenueID != nil {
		venueID = *g.VenueID
	}
	raw, err := json.Marshal(g.Meta)
	if err != nil {
		return nil, nil, nil, err
	}
	return endsAt, venueID, raw, nil
}

// CreateTx inserts a new gig within the caller's transaction and populates
// the generated ID plus DB defaults on the given struct.
func (r *GigRepo) CreateTx(ctx context.Context, tx *sql.Tx, g *model.Gig) error {
	endsAt, venueID, meta, err := gigArgs(g)
	if err != nil {
		return err
	}
	const q = `INSERT INTO gigs (title, description, event_type, starts_at, ends_at, timezone, status, venue_id, meta)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, g.Title, g.Description, g.EventType, g.StartsAt.UTC(),
		endsAt, g.Timezone, g.Status, venueID, meta)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	const sel = "SELECT " + gigColumns + " FROM gigs WHERE id = ?"
	fresh, err := scanGig(tx.QueryRowContext(ctx, sel, g.ID).Scan)
	if err != nil {
		return err
	}
	*g = *fresh
	return nil
}

// GetByID fetches a gig by ID. Returns ErrGigNotFound when absent.
func (r *GigRepo) GetByID(ctx context.Context, id uint64) (*model.Gig, error) {
	const q = "SELECT " + gigColumns + " FROM gigs WHERE id = ?"
	g, err := scanGig(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGigNotFound
		}
		return nil, err
	}
	return g, nil
}

// Update rewrites a gig's editable fields and metadata in place. The
// status column is deliberately not touched here; status moves only
// through PromoteDue, PublishNow and the booking lifecycle.
func (r *GigRepo) Update(ctx context.Context, g *model.Gig) error {
	endsAt, venueID, meta, err := gigArgs(g)
	if err != nil {
		return err
	}
	const q = `UPDATE gigs
	           SET title = ?, description = ?, event_type = ?, starts_at = ?, ends_at = ?,
	               timezone = ?, venue_id = ?, meta = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, g.Title, g.Description, g.EventType, g.StartsAt.UTC(),
		endsAt, g.Timezone, venueID, meta, g.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGigNotFound
	}
	return nil
}

// setStatusMeta flips a gig's status and rewrites its metadata in a single
// conditional update. The WHERE clause on the old status makes the guard
// and the write one unit: a concurrent promotion loses the race cleanly
// with zero rows affected.
func (r *GigRepo) setStatusMeta(ctx context.Context, id uint64, fromStatus, toStatus string, m model.GigMeta) (bool, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return false, err
	}
	const q = `UPDATE gigs SET status = ?, meta = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, toStatus, raw, id, fromStatus)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PromoteDue publishes a draft gig whose scheduled publish instant has
// elapsed. The metadata is rewritten to immediate form so a second pass is
// a no-op; the gig struct is updated in place on success. Returns false
// without error when the gig was not due or another writer got there
// first.
func (r *GigRepo) PromoteDue(ctx context.Context, g *model.Gig, now time.Time) (bool, error) {
	if g.Status != model.GigStatusDraft || !g.Meta.PublishDue(now) {
		return false, nil
	}
	promoted := g.Meta
	promoted.Promote(now)
	ok, err := r.setStatusMeta(ctx, g.ID, model.GigStatusDraft, model.GigStatusPublished, promoted)
	if err != nil || !ok {
		return false, err
	}
	g.Status = model.GigStatusPublished
	g.Meta = promoted
	return true, nil
}

// PublishNow forces a draft gig live regardless of any scheduled future
// time. Publishing an already-published gig is a no-op success; cancelled
// and completed gigs return ErrConflict.
func (r *GigRepo) PublishNow(ctx context.Context, g *model.Gig, now time.Time) error {
	switch g.Status {
	case model.GigStatusPublished:
		return nil
	case model.GigStatusCancelled, model.GigStatusCompleted:
		return ErrConflict
	}
	promoted := g.Meta
	promoted.Promote(now)
	ok, err := r.setStatusMeta(ctx, g.ID, model.GigStatusDraft, model.GigStatusPublished, promoted)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	g.Status = model.GigStatusPublished
	g.Meta = promoted
	return nil
}

// SetStatus flips a gig's status unconditionally by ID. Used when a
// booking transition carries the gig along (completion).
func (r *GigRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	const q = "UPDATE gigs SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGigNotFound
	}
	return nil
}

// ListDrafts returns all draft gigs, oldest first. The periodic publish
// sweeper filters these against their scheduled instants in memory since
// the schedule lives inside the JSON metadata column.
func (r *GigRepo) ListDrafts(ctx context.Context) ([]*model.Gig, error) {
	const q = "SELECT " + gigColumns + " FROM gigs WHERE status = ? ORDER BY id"
	return r.queryGigs(ctx, q, model.GigStatusDraft)
}

// ListPublished returns published gigs ordered by start time for the
// public browse surface.
func (r *GigRepo) ListPublished(ctx context.Context, limit, offset int) ([]*model.Gig, error) {
	const q = "SELECT " + gigColumns + " FROM gigs WHERE status = ? ORDER BY starts_at LIMIT ? OFFSET ?"
	return r.queryGigs(ctx, q, model.GigStatusPublished, limit, offset)
}

func (r *GigRepo) queryGigs(ctx context.Context, q string, args ...any) ([]*model.Gig, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Gig, 0)
	for rows.Next() {
		g, err := scanGig(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
