// Package rules holds the eligibility predicates shared by the matchers and the
// fleet-wide conflict scanner. Every function here is total: malformed input
// degrades to a documented safe default instead of returning an error.
package rules

import (
	"strings"
	"time"
)

// dateLayouts are tried in order; the first successful parse wins, so an
// ambiguous value like 03/04/2024 is read day-first.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "01/02/2006"}

// ParseDate parses s in one of the accepted layouts. It reports false for
// empty or unparseable input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateRange is an inclusive pair of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseRange parses both ends of a range; ok is false if either fails.
func ParseRange(start, end string) (DateRange, bool) {
	s, ok := ParseDate(start)
	if !ok {
		return DateRange{}, false
	}
	e, ok := ParseDate(end)
	if !ok {
		return DateRange{}, false
	}
	return DateRange{Start: s, End: e}, true
}

// Overlaps reports whether two inclusive ranges share at least one day.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !o.Start.After(r.End)
}

// DatesOverlap reports whether [s1,e1] and [s2,e2] overlap. Any unparseable
// date makes the answer false.
func DatesOverlap(s1, e1, s2, e2 string) bool {
	a, ok := ParseRange(s1, e1)
	if !ok {
		return false
	}
	b, ok := ParseRange(s2, e2)
	if !ok {
		return false
	}
	return a.Overlaps(b)
}

// DurationDays returns the inclusive day count of [start,end], at least 1.
// Unparseable dates count as a single day.
func DurationDays(start, end string) int {
	r, ok := ParseRange(start, end)
	if !ok {
		return 1
	}
	days := DaysBetween(r.Start, r.End) + 1
	if days < 1 {
		return 1
	}
	return days
}

// DaysBetween returns the number of calendar days from a to b, negative when
// b is earlier. Times of day are ignored.
func DaysBetween(a, b time.Time) int {
	return int(civilDay(b) - civilDay(a))
}

// civilDay numbers the calendar day of t as days since the Unix epoch.
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
