package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuarterFromMonthIndex(t *testing.T) {
	want := []Quarter{Q1, Q1, Q1, Q2, Q2, Q2, Q3, Q3, Q3, Q4, Q4, Q4}
	for i, q := range want {
		assert.Equal(t, q, QuarterFromMonthIndex(i), "month index %d", i)
	}

	assert.Equal(t, Q2, QuarterFromMonthIndex(5))
	assert.Equal(t, Q3, QuarterFromMonthIndex(6))
}

func TestParseQuarter(t *testing.T) {
	q, ok := ParseQuarter("q3")
	assert.True(t, ok)
	assert.Equal(t, Q3, q)

	q, ok = ParseQuarter("4")
	assert.True(t, ok)
	assert.Equal(t, Q4, q)

	_, ok = ParseQuarter("Q5")
	assert.False(t, ok)
	_, ok = ParseQuarter("")
	assert.False(t, ok)
}

func TestPeriodOrdering(t *testing.T) {
	a := PeriodOf(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	b := PeriodOf(time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))
	c := PeriodOf(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))

	assert.True(t, b.Before(a))
	assert.True(t, a.Before(c))
	assert.False(t, c.Before(b))
	assert.Equal(t, "2024-Q1", a.Key())
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2025-02-10")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), d)

	_, ok = ParseDate("2024-06-15T10:20:30Z")
	assert.True(t, ok)

	for _, bad := range []string{"", "  ", "15/06/2024", "2024-13-01"} {
		_, ok := ParseDate(bad)
		assert.False(t, ok, bad)
	}

	assert.Equal(t, "9999", DateKey("nope"))
	assert.Equal(t, "2024-06-15", DateKey("2024-06-15T10:20:30Z"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", FormatDate(time.Time{}))
	assert.Equal(t, "2025-02-10", FormatDate(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)))

	d, ok := ParseDate("2024-12-31")
	require.True(t, ok)
	assert.Equal(t, "2024-12-31", FormatDate(d))
}
