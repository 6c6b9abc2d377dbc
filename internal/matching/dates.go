// internal/matching/dates.go
package matching

import (
	"strings"
	"time"
)

// Date layouts accepted on timeline entries, tried in order. Candidates type
// these by hand, so the list is deliberately forgiving.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01",
}

// parseDateOr parses a stored date string, falling back to the given time when
// the value is absent or unparseable. Historic rows serialized a missing end
// date as the literal "None", so that spelling counts as absent too.
//
// The fallback is what makes search total: a bad date never fails the search,
// it just zeroes that entry's duration contribution.
func parseDateOr(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") || strings.EqualFold(s, "null") {
		return fallback
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}

// effectiveEnd resolves an entry's end date: the parsed end date if present,
// otherwise "now" (an ongoing entry counts up to evaluation time).
func effectiveEnd(endDate string, now time.Time) time.Time {
	return parseDateOr(endDate, now)
}

// entryDays returns the day span of one entry, clamped at zero.
func entryDays(startDate, endDate string, now time.Time) int {
	start := parseDateOr(startDate, now)
	end := effectiveEnd(endDate, now)
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// monthsBetween is the coarse calendar month difference used by the recency
// window: 12*Δyears + Δmonths, ignoring days entirely.
func monthsBetween(from, to time.Time) int {
	return 12*(to.Year()-from.Year()) + int(to.Month()) - int(from.Month())
}
