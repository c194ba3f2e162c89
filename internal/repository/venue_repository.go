package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/stagelink/gigbook/internal/model"
)

// VenueRepo manages persistence for venues. Venues are created lazily the
// first time an owner books an in-person gig under a new name; the
// (owner, case-insensitive name) pair is deduplicated by looking up before
// inserting. There is no DB-level uniqueness constraint backing this, so
// two concurrent first-time bookings of the same name can still race into
// two rows; FindOrCreate narrows the window by doing both steps in one
// transaction but cannot close it.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo returns a VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

const venueColumns = "id, owner_id, name, address_line1, city, country, created_at, updated_at"

func scanVenue(row *sql.Row) (*model.Venue, error) {
	var v model.Venue
	err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.AddressLine1, &v.City, &v.Country, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// GetByID fetches a venue regardless of owner.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = "SELECT " + venueColumns + " FROM venues WHERE id = ?"
	return scanVenue(r.db.QueryRowContext(ctx, q, id))
}

// FindByOwnerAndName looks up a venue by its owner and case-insensitive
// name. Returns ErrVenueNotFound when no such venue exists.
func (r *VenueRepo) FindByOwnerAndName(ctx context.Context, ownerID uint64, name string) (*model.Venue, error) {
	const q = "SELECT " + venueColumns + " FROM venues WHERE owner_id = ? AND LOWER(name) = LOWER(?)"
	return scanVenue(r.db.QueryRowContext(ctx, q, ownerID, strings.TrimSpace(name)))
}

// FindOrCreate resolves a free-text venue name to a venue ID for the given
// owner. An existing venue with a matching name (case-insensitive) is
// reused; supplied address fields update it in place. Otherwise a new
// venue is inserted and returned fully populated.
func (r *VenueRepo) FindOrCreate(ctx context.Context, ownerID uint64, name, line1, city, country string) (*model.Venue, error) {
	name = strings.TrimSpace(name)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const sel = "SELECT " + venueColumns + " FROM venues WHERE owner_id = ? AND LOWER(name) = LOWER(?)"
	var v model.Venue
	err = tx.QueryRowContext(ctx, sel, ownerID, name).Scan(
		&v.ID, &v.OwnerID, &v.Name, &v.AddressLine1, &v.City, &v.Country, &v.CreatedAt, &v.UpdatedAt,
	)
	switch {
	case err == nil:
		// Reuse the existing venue, refreshing any address fields the
		// caller supplied this time around.
		if line1 != "" || city != "" || country != "" {
			if line1 == "" {
				line1 = v.AddressLine1
			}
			if city == "" {
				city = v.City
			}
			if country == "" {
				country = v.Country
			}
			const upd = `UPDATE venues SET address_line1 = ?, city = ?, country = ?, updated_at = CURRENT_TIMESTAMP
			             WHERE id = ? AND owner_id = ?`
			if _, err := tx.ExecContext(ctx, upd, line1, city, country, v.ID, ownerID); err != nil {
				return nil, err
			}
			v.AddressLine1, v.City, v.Country = line1, city, country
		}
	case errors.Is(err, sql.ErrNoRows):
		const ins = "INSERT INTO venues (owner_id, name, address_line1, city, country) VALUES (?, ?, ?, ?, ?)"
		res, err := tx.ExecContext(ctx, ins, ownerID, name, line1, city, country)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		// Select back to populate timestamps and defaults.
		if err := tx.QueryRowContext(ctx, "SELECT "+venueColumns+" FROM venues WHERE id = ?", uint64(id)).Scan(
			&v.ID, &v.OwnerID, &v.Name, &v.AddressLine1, &v.City, &v.Country, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &v, nil
}
