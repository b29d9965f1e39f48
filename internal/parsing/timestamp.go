package parsing

import (
	"fmt"
	"time"
)

// The three accepted timestamp grammars, tried in order. Bare datetimes and
// dates are interpreted at UTC; offset-aware instants keep their instant and
// are normalized to UTC.
const (
	layoutDateTime = "2006-01-02T15:04:05"
	layoutDate     = "2006-01-02"
)

// ParseTimestamp parses a timestamp string as (1) a full RFC3339 instant,
// (2) a plain date+time at UTC, or (3) a date-only value at UTC midnight.
// The first grammar that matches wins.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(layoutDateTime, s, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(layoutDate, s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%q is not an RFC3339 instant, a datetime, or a date", s)
}

// FormatTimestamp renders a timestamp the way record properties expose it:
// RFC3339 at UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
