package billing

import (
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates (issued, due, start, end, expense date).
const DateLayout = "2006-01-02"

// missingDateKey sorts absent dates after every real one.
const missingDateKey = "9999"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
}

// ParseDate parses a date or timestamp string leniently. Date-only values are
// read as UTC midnight. Empty or malformed input reports ok=false and never
// panics, so one bad record cannot break a list.
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

// DateKey returns a sortable key for a date string: YYYY-MM-DD for valid
// dates, "9999" for missing or malformed ones.
func DateKey(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return missingDateKey
	}
	return t.UTC().Format(DateLayout)
}

// FormatDate renders t as YYYY-MM-DD, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FirstDate returns the first candidate that parses. It implements the
// effective-date fallback (natural date, then created_at).
func FirstDate(candidates ...string) (time.Time, bool) {
	for _, c := range candidates {
		if t, ok := ParseDate(c); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
