// Package dates parses the calendar values carried in content metadata and
// renders them as calendar days.
package dates

import (
	"strings"
	"time"
)

// Reference is the zone bare calendar dates are anchored to. A date-only value
// resolves to noon in this zone so downstream displays never shift it onto the
// previous evening.
var Reference = time.FixedZone("UTC-8", -8*60*60)

const dateOnly = "2006-01-02"

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Parse converts a metadata value into a time. time.Time values pass through
// unless zero. Strings are accepted as a bare YYYY-MM-DD date or an ISO-8601
// timestamp; timestamps without a zone are read as UTC.
func Parse(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		return ParseString(v)
	default:
		return time.Time{}, false
	}
}

// ParseString parses the textual forms accepted by Parse.
func ParseString(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if len(value) == len(dateOnly) {
		day, err := time.Parse(dateOnly, value)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, Reference), true
	}

	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// FormatISO renders the calendar date in UTC as YYYY-MM-DD.
func FormatISO(t time.Time) string {
	return t.UTC().Format(dateOnly)
}
