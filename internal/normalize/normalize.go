// Package normalize turns raw untrusted input into typed, constrained
// values. Every function here is pure: no clock reads, no storage, no
// logging. Failures come back as *Error values carrying the offending
// field and a human-readable reason so handlers can return them verbatim
// as 400 responses.
package normalize

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Error is a validation failure tied to a single input field.
type Error struct {
	Field   string // input field that failed
	Message string // actionable reason shown to the caller
}

func (e *Error) Error() string { return e.Field + ": " + e.Message }

func errf(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Currencies accepted for booking fees.
var currencies = map[string]bool{
	"GBP": true,
	"USD": true,
	"EUR": true,
	"AUD": true,
}

// Currency uppercases the code and checks it against the supported set.
func Currency(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !currencies[code] {
		return "", errf("currency", "unsupported currency %q; supported: GBP, USD, EUR, AUD", raw)
	}
	return code, nil
}

var eventTypes = map[string]bool{
	"concert":    true,
	"festival":   true,
	"private":    true,
	"open_mic":   true,
	"livestream": true,
}

// EventType lowercases the value and checks it against the supported set.
func EventType(raw string) (string, error) {
	et := strings.ToLower(strings.TrimSpace(raw))
	if !eventTypes[et] {
		return "", errf("event_type", "unsupported event type %q", raw)
	}
	return et, nil
}

// feeCap is the maximum accepted booking fee in any currency.
var feeCap = decimal.NewFromInt(1_000_000)

// Fee validates a numeric fee and rounds it to 2 decimal places.
func Fee(raw float64) (decimal.Decimal, error) {
	d := decimal.NewFromFloat(raw)
	if d.IsNegative() {
		return decimal.Zero, errf("fee", "fee must not be negative")
	}
	if d.GreaterThan(feeCap) {
		return decimal.Zero, errf("fee", "fee must not exceed 1000000")
	}
	return d.Round(2), nil
}

// Timezone resolves an IANA zone identifier. The returned location is used
// for all same-day and publish-schedule calculations on the gig.
func Timezone(raw string) (*time.Location, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return nil, errf("timezone", "timezone is required")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errf("timezone", "unknown timezone %q", raw)
	}
	return loc, nil
}

// URL validates an absolute http(s) URL, used for live-stream links and
// third-party ticket pages.
func URL(field, raw string) (string, error) {
	s := strings.TrimSpace(raw)
	u, err := url.Parse(s)
	if err != nil {
		return "", errf(field, "invalid URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errf(field, "URL must use http or https")
	}
	return s, nil
}

// SameDay enforces that start and end fall on the same calendar date in
// the gig's timezone. Cross-day gigs are rejected regardless of duration.
func SameDay(start, end time.Time, loc *time.Location) error {
	sy, sm, sd := start.In(loc).Date()
	ey, em, ed := end.In(loc).Date()
	if sy != ey || sm != em || sd != ed {
		return errf("ends_at", "start and end must fall on the same calendar date in the gig timezone")
	}
	return nil
}
