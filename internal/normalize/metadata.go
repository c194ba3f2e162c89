package normalize

import (
	"strings"
	"time"

	"github.com/stagelink/gigbook/internal/model"
)

// ageCatalog is the closed set of selectable restriction bands. "All ages"
// is exclusive; at most one Over and one Under band may be combined.
var ageCatalog = map[string]bool{
	"All ages":  true,
	"Over 18s":  true,
	"Over 21s":  true,
	"Under 18s": true,
	"Under 21s": true,
}

// AgeRestriction validates the restriction mode and selections and
// precomputes the public display string: "Family Friendly" for all-ages,
// otherwise the selected bands joined with ". " and a closing period.
func AgeRestriction(mode string, selections []string) (*model.AgeRestriction, error) {
	switch mode {
	case "", model.AgeModeUnknown:
		return &model.AgeRestriction{Mode: model.AgeModeUnknown}, nil
	case model.AgeModeHasRestrictions:
		// validated below
	default:
		return nil, errf("age_restriction", "unknown age restriction mode %q", mode)
	}
	if len(selections) == 0 {
		return nil, errf("age_restriction", "at least one age restriction must be selected")
	}
	var allAges, over, under int
	cleaned := make([]string, 0, len(selections))
	for _, s := range selections {
		s = strings.TrimSpace(s)
		if !ageCatalog[s] {
			return nil, errf("age_restriction", "invalid age restriction option %q", s)
		}
		switch {
		case s == "All ages":
			allAges++
		case strings.HasPrefix(s, "Over"):
			over++
		case strings.HasPrefix(s, "Under"):
			under++
		}
		cleaned = append(cleaned, s)
	}
	if allAges > 0 && len(cleaned) > 1 {
		return nil, errf("age_restriction", "All ages cannot be combined with other restrictions")
	}
	if over > 1 {
		return nil, errf("age_restriction", "only one Over restriction may be selected")
	}
	if under > 1 {
		return nil, errf("age_restriction", "only one Under restriction may be selected")
	}
	display := "Family Friendly"
	if allAges == 0 {
		display = strings.Join(cleaned, ". ") + "."
	}
	return &model.AgeRestriction{
		Mode:       model.AgeModeHasRestrictions,
		Selections: cleaned,
		Display:    display,
	}, nil
}

// ticketAliases maps legacy availability modes onto their canonical form.
var ticketAliases = map[string]string{
	"custom":        model.TicketModeLessThanFull,
	"full_capacity": model.TicketModeFullCapacity,
}

// TicketAvailability canonicalizes the availability mode and enforces that
// a reduced-capacity gig declares how many tickets it actually sells.
func TicketAvailability(mode string, customCount *int) (*model.TicketAvailability, error) {
	m := strings.ToLower(strings.TrimSpace(mode))
	if canonical, ok := ticketAliases[m]; ok {
		m = canonical
	}
	switch m {
	case "", model.TicketModeSkip:
		return &model.TicketAvailability{Mode: model.TicketModeSkip}, nil
	case model.TicketModeFullCapacity:
		return &model.TicketAvailability{Mode: model.TicketModeFullCapacity}, nil
	case model.TicketModeLessThanFull:
		if customCount == nil || *customCount <= 0 {
			return nil, errf("tickets", "a positive custom ticket count is required for reduced-capacity gigs")
		}
		n := *customCount
		return &model.TicketAvailability{Mode: model.TicketModeLessThanFull, CustomCount: &n}, nil
	default:
		return nil, errf("tickets", "unknown ticket availability mode %q", mode)
	}
}

// PublishSchedule validates the publish block. Immediate mode stamps
// PublishedAt with the supplied clock; scheduled mode composes the local
// date (+ optional HH:MM, default midnight) in the gig's timezone and
// requires the resulting instant to be strictly in the future.
func PublishSchedule(mode, date, hhmm string, loc *time.Location, now time.Time) (*model.PublishInfo, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", model.PublishModeImmediate:
		stamp := now.UTC()
		return &model.PublishInfo{Mode: model.PublishModeImmediate, PublishedAt: &stamp}, nil
	case model.PublishModeScheduled:
		// validated below
	default:
		return nil, errf("publish_mode", "unknown publish mode %q", mode)
	}
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, errf("publish_date", "a publish date is required for scheduled publishing")
	}
	if hhmm = strings.TrimSpace(hhmm); hhmm == "" {
		hhmm = "00:00"
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, loc)
	if err != nil {
		return nil, errf("publish_date", "publish date must be YYYY-MM-DD with an optional HH:MM time")
	}
	if !at.After(now) {
		return nil, errf("publish_date", "scheduled publish time must be in the future")
	}
	utc := at.UTC()
	return &model.PublishInfo{
		Mode:      model.PublishModeScheduled,
		Date:      date,
		Time:      hhmm,
		PublishAt: &utc,
	}, nil
}
