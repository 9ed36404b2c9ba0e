package billing

import (
	"math"
	"time"
)

// Date-relative bucket labels in display order.
const (
	LabelToday       = "Today"
	LabelYesterday   = "Yesterday"
	LabelThisWeek    = "This Week"
	LabelThisMonth   = "This Month"
	LabelLast3Months = "Last 3 Months"
	LabelOlder       = "Older"
	LabelNoDate      = "No Date"
)

// BucketLabels is the fixed display order of date buckets.
var BucketLabels = []string{
	LabelToday, LabelYesterday, LabelThisWeek, LabelThisMonth,
	LabelLast3Months, LabelOlder, LabelNoDate,
}

// DateBucket is a coarse date-relative group used by compact list views.
type DateBucket[T any] struct {
	Label string `json:"label"`
	Items []T    `json:"items"`
}

// DaysAgo returns floor((now - t) / 24h).
func DaysAgo(t, now time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}

// BucketLabel returns the relative label for a record date. Dates in the
// future count as Today.
func BucketLabel(t time.Time, ok bool, now time.Time) string {
	if !ok {
		return LabelNoDate
	}
	days := DaysAgo(t, now)
	switch {
	case days <= 0:
		return LabelToday
	case days == 1:
		return LabelYesterday
	case days < 7:
		return LabelThisWeek
	case days < 30:
		return LabelThisMonth
	case days < 90:
		return LabelLast3Months
	default:
		return LabelOlder
	}
}

// BucketByDate groups items by BucketLabel in the fixed display order,
// omitting empty buckets and keeping item order within a bucket.
func BucketByDate[T any](items []T, date func(T) (time.Time, bool), now time.Time) []DateBucket[T] {
	byLabel := make(map[string][]T)
	for _, it := range items {
		t, ok := date(it)
		label := BucketLabel(t, ok, now)
		byLabel[label] = append(byLabel[label], it)
	}

	out := make([]DateBucket[T], 0, len(byLabel))
	for _, label := range BucketLabels {
		if items, ok := byLabel[label]; ok {
			out = append(out, DateBucket[T]{Label: label, Items: items})
		}
	}
	return out
}
