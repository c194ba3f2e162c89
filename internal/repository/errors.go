// Package repository contains all data access logic, kept out of the HTTP
// handlers. Sentinel errors defined here let higher layers distinguish
// failure classes without inspecting SQL errors: ErrConflict maps to 409
// and the not-found values to 404. Anything else coming out of a
// repository is an infrastructure fault and maps to 500.
package repository

import "errors"

// ErrConflict is returned when a conditional update matched no row, which
// means another writer changed the record's state between the guard check
// and the write. Callers should re-read and retry or report 409.
var ErrConflict = errors.New("conflict")

// ErrGigNotFound indicates the requested gig does not exist.
var ErrGigNotFound = errors.New("gig not found")

// ErrBookingNotFound indicates the requested booking does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrVenueNotFound indicates the requested venue does not exist.
var ErrVenueNotFound = errors.New("venue not found")
