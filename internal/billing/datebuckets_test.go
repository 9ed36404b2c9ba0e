package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketLabel(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	daysAgo := func(d int) time.Time { return now.Add(-time.Duration(d) * 24 * time.Hour) }

	cases := []struct {
		at   time.Time
		want string
	}{
		{now.Add(48 * time.Hour), LabelToday},
		{now.Add(-time.Hour), LabelToday},
		{daysAgo(1), LabelYesterday},
		{daysAgo(6), LabelThisWeek},
		{daysAgo(7), LabelThisMonth},
		{daysAgo(29), LabelThisMonth},
		{daysAgo(30), LabelLast3Months},
		{daysAgo(89), LabelLast3Months},
		{daysAgo(90), LabelOlder},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BucketLabel(tc.at, true, now), tc.at.String())
	}
	assert.Equal(t, LabelNoDate, BucketLabel(time.Time{}, false, now))
}

func TestBucketByDateOrder(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	dates := map[int]string{1: "2024-01-01", 2: "", 3: "2024-06-15", 4: "2024-06-14", 5: "2024-06-15"}

	buckets := BucketByDate([]int{1, 2, 3, 4, 5}, func(id int) (time.Time, bool) {
		return ParseDate(dates[id])
	}, now)

	var labels []string
	for _, b := range buckets {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{LabelToday, LabelYesterday, LabelOlder, LabelNoDate}, labels)
	assert.Equal(t, []int{3, 5}, buckets[0].Items)
}
