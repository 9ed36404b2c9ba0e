package billing

import (
	"fmt"
	"strings"
	"time"
)

// Quarter is a calendar quarter bucket, independent of any fiscal year.
type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

// Quarters lists the buckets in chronological order.
var Quarters = []Quarter{Q1, Q2, Q3, Q4}

// QuarterFromMonthIndex maps a zero-based month index (0 = January) to its
// quarter: 0–2 Q1, 3–5 Q2, 6–8 Q3, 9–11 Q4. Out of range indexes are clamped.
func QuarterFromMonthIndex(index int) Quarter {
	switch {
	case index < 3:
		return Q1
	case index < 6:
		return Q2
	case index < 9:
		return Q3
	default:
		return Q4
	}
}

// QuarterOf returns the quarter containing t.
func QuarterOf(t time.Time) Quarter {
	return QuarterFromMonthIndex(int(t.Month()) - 1)
}

// ParseQuarter accepts "Q1".."Q4" (case-insensitive) and "1".."4".
func ParseQuarter(s string) (Quarter, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) == 1 {
		s = "Q" + s
	}
	for _, q := range Quarters {
		if Quarter(s) == q {
			return q, true
		}
	}
	return "", false
}

// Rank returns 1..4 for valid quarters and 0 otherwise.
func (q Quarter) Rank() int {
	for i, v := range Quarters {
		if q == v {
			return i + 1
		}
	}
	return 0
}

// Valid reports whether q is one of Q1..Q4.
func (q Quarter) Valid() bool {
	return q.Rank() > 0
}

// Period is a (year, quarter) bucket.
type Period struct {
	Year    int     `json:"year"`
	Quarter Quarter `json:"quarter"`
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Quarter: QuarterOf(t)}
}

// Key returns a stable identifier such as "2024-Q2".
func (p Period) Key() string {
	return fmt.Sprintf("%d-%s", p.Year, p.Quarter)
}

// Label returns a display label such as "2024 Q2".
func (p Period) Label() string {
	return fmt.Sprintf("%d %s", p.Year, p.Quarter)
}

// Before orders periods reverse-chronologically: later years first, then Q4 before Q1.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year > other.Year
	}
	return p.Quarter.Rank() > other.Quarter.Rank()
}

// ListFilter narrows GET list queries by period. Zero values mean no filter.
type ListFilter struct {
	Year    int
	Quarter Quarter
}
