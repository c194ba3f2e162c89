package model

import "time"

// Venue is a performance location owned by a user. Venues are created
// lazily the first time an owner books an in-person gig under a new name;
// lookups are case-insensitive per (owner, name) so repeat bookings reuse
// the same row.
//
// Fields:
//  ID           – primary key identifier.
//  OwnerID      – user ID of the venue owner.
//  Name         – human-friendly venue name.
//  AddressLine1 – street address, may be empty.
//  City         – city, may be empty.
//  Country      – country, may be empty.
type Venue struct {
	ID           uint64    // venues.id
	OwnerID      uint64    // venues.owner_id
	Name         string    // venues.name
	AddressLine1 string    // venues.address_line1
	City         string    // venues.city
	Country      string    // venues.country
	CreatedAt    time.Time // venues.created_at
	UpdatedAt    time.Time // venues.updated_at
}

// Address joins the structured address parts into a single display string,
// skipping empty components. An empty result means no address is known.
func (v *Venue) Address() string {
	out := ""
	for _, part := range []string{v.AddressLine1, v.City, v.Country} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	return out
}
