package billing

import (
	"math"
	"sort"
	"strings"
	"time"
)

// SortDir is an explicit sort direction.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// GroupBy selects the grouping mode of a projection.
type GroupBy string

const (
	GroupNone        GroupBy = "none"
	GroupYearQuarter GroupBy = "year_quarter"
)

// Mode selects list (compact, paginated, date-bucketed) or table rendering.
type Mode string

const (
	ModeList  Mode = "list"
	ModeTable Mode = "table"
)

// DefaultPageSize is the page size of list-mode views.
const DefaultPageSize = 20

// ViewParams are the user-controlled inputs of the list pipeline.
type ViewParams struct {
	Search   string   `json:"search,omitempty"`
	Statuses []string `json:"statuses,omitempty"`
	SortKey  string   `json:"sort,omitempty"`
	SortDir  SortDir  `json:"dir,omitempty"`
	Quarter  Quarter  `json:"quarter,omitempty"`
	Year     int      `json:"year,omitempty"`
	GroupBy  GroupBy  `json:"group,omitempty"`
	Page     int      `json:"page,omitempty"`
	PageSize int      `json:"page_size,omitempty"`
	Mode     Mode     `json:"mode,omitempty"`
}

// SortSpec is an ascending comparator plus the direction the key sorts in
// when no explicit direction is given.
type SortSpec[T any] struct {
	Compare func(a, b T) int
	Dir     SortDir
}

// Schema describes how the pipeline reads one record kind.
type Schema[T any] struct {
	Kind             string
	ID               func(T) int
	SearchFields     func(T) []string
	Status           func(T, time.Time) string
	EffectiveDate    func(T) (time.Time, bool)
	Period           func(T) (Period, bool)
	Amount           func(T) float64
	Currency         func(T) string
	Sorts            map[string]SortSpec[T]
	DefaultSort      string
	FallbackCurrency string
}

// Group is one year/quarter bucket of a grouped projection.
type Group[T any] struct {
	Key     string         `json:"key"`
	Label   string         `json:"label"`
	Year    int            `json:"year"`
	Quarter Quarter        `json:"quarter"`
	Items   []T            `json:"items"`
	Totals  CurrencyTotals `json:"totals"`
}

// Projection is the renderable output of the pipeline.
type Projection[T any] struct {
	Items    []T             `json:"items"`
	Groups   []Group[T]      `json:"groups,omitempty"`
	Buckets  []DateBucket[T] `json:"buckets,omitempty"`
	Count    int             `json:"count"`
	Page     int             `json:"page"`
	MaxPage  int             `json:"max_page"`
	PageSize int             `json:"page_size"`
	Totals   CurrencyTotals  `json:"totals"`
}

// NoDateGroupKey identifies the trailing group of records without any date.
const NoDateGroupKey = "no-date"

// Apply runs search, status filter, period filter, stable sort and then
// either year/quarter grouping or pagination. It never mutates records and
// returns the same projection for the same inputs.
func (s Schema[T]) Apply(records []T, p ViewParams, now time.Time) Projection[T] {
	filtered := s.Filter(records, p, now)
	sorted := s.Sort(filtered, p.SortKey, p.SortDir, now)

	proj := Projection[T]{
		Count:  len(sorted),
		Totals: SumByCurrency(sorted, s.amount, s.currency, s.FallbackCurrency),
	}

	if p.GroupBy == GroupYearQuarter {
		proj.Items = sorted
		proj.Groups = s.GroupByPeriod(sorted)
		return proj
	}

	if p.Mode == ModeTable {
		proj.Items = sorted
		return proj
	}

	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	pg := Paginate(len(sorted), p.Page, size)
	proj.Items = sorted[pg.Start:pg.End]
	proj.Page = pg.Page
	proj.MaxPage = pg.MaxPage
	proj.PageSize = size
	proj.Buckets = BucketByDate(proj.Items, s.effectiveDate, now)
	return proj
}

// Filter applies steps 1–3: search, derived status and period.
func (s Schema[T]) Filter(records []T, p ViewParams, now time.Time) []T {
	query := strings.ToLower(strings.TrimSpace(p.Search))

	statuses := make(map[string]bool, len(p.Statuses))
	for _, st := range p.Statuses {
		if st = NormalizeStatus(st); st != "" {
			statuses[st] = true
		}
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		if query != "" && !s.matches(r, query) {
			continue
		}
		if len(statuses) > 0 && s.Status != nil && !statuses[s.Status(r, now)] {
			continue
		}
		if (p.Quarter != "" || p.Year != 0) && !s.inPeriod(r, p.Quarter, p.Year) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s Schema[T]) matches(r T, query string) bool {
	if s.SearchFields == nil {
		return true
	}
	for _, f := range s.SearchFields(r) {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func (s Schema[T]) inPeriod(r T, q Quarter, year int) bool {
	period, ok := s.period(r)
	if !ok {
		return false
	}
	if q != "" && period.Quarter != q {
		return false
	}
	if year != 0 && period.Year != year {
		return false
	}
	return true
}

// Sort returns a stably sorted copy. Unknown keys fall back to DefaultSort;
// an empty dir uses the key's own direction.
func (s Schema[T]) Sort(records []T, key string, dir SortDir, now time.Time) []T {
	out := make([]T, len(records))
	copy(out, records)

	sorter, ok := s.Sorts[key]
	if !ok {
		sorter, ok = s.Sorts[s.DefaultSort]
	}
	if !ok || sorter.Compare == nil {
		return out
	}
	if dir != SortAsc && dir != SortDesc {
		dir = sorter.Dir
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := sorter.Compare(out[i], out[j])
		if dir == SortDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// GroupByPeriod buckets sorted records by (year, quarter). Groups come out
// years descending and Q4 before Q1 within a year; records keep their sorted
// order inside a group. Undated records form a trailing "No Date" group.
func (s Schema[T]) GroupByPeriod(sorted []T) []Group[T] {
	index := make(map[string]int)
	var groups []Group[T]
	var undated []T

	for _, r := range sorted {
		period, ok := s.period(r)
		if !ok {
			undated = append(undated, r)
			continue
		}
		key := period.Key()
		i, exists := index[key]
		if !exists {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group[T]{
				Key:     key,
				Label:   period.Label(),
				Year:    period.Year,
				Quarter: period.Quarter,
			})
		}
		groups[i].Items = append(groups[i].Items, r)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a := Period{Year: groups[i].Year, Quarter: groups[i].Quarter}
		b := Period{Year: groups[j].Year, Quarter: groups[j].Quarter}
		return a.Before(b)
	})

	if len(undated) > 0 {
		groups = append(groups, Group[T]{Key: NoDateGroupKey, Label: LabelNoDate, Items: undated})
	}

	for i := range groups {
		groups[i].Totals = SumByCurrency(groups[i].Items, s.amount, s.currency, s.FallbackCurrency)
	}
	return groups
}

func (s Schema[T]) period(r T) (Period, bool) {
	if s.Period != nil {
		if p, ok := s.Period(r); ok {
			return p, true
		}
	}
	t, ok := s.effectiveDate(r)
	if !ok {
		return Period{}, false
	}
	return PeriodOf(t), true
}

func (s Schema[T]) effectiveDate(r T) (time.Time, bool) {
	if s.EffectiveDate == nil {
		return time.Time{}, false
	}
	return s.EffectiveDate(r)
}

func (s Schema[T]) amount(r T) float64 {
	if s.Amount == nil {
		return 0
	}
	return s.Amount(r)
}

func (s Schema[T]) currency(r T) string {
	if s.Currency == nil {
		return ""
	}
	return s.Currency(r)
}

// Page describes one slice of a flat projection.
type Page struct {
	Start   int
	End     int
	Page    int
	MaxPage int
}

// Paginate clamps page into [0, maxPage] where maxPage = max(0, ceil(n/size)-1)
// and returns the half-open slice bounds.
func Paginate(n, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	maxPage := int(math.Ceil(float64(n)/float64(size))) - 1
	if maxPage < 0 {
		maxPage = 0
	}
	if page > maxPage {
		page = maxPage
	}
	if page < 0 {
		page = 0
	}
	start := page * size
	end := start + size
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	return Page{Start: start, End: end, Page: page, MaxPage: maxPage}
}

// CompareStrings compares case-insensitively.
func CompareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// CompareFloats compares two amounts; non-finite values count as zero.
func CompareFloats(a, b float64) int {
	a, b = Round2(a), Round2(b)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CompareDates compares date strings by DateKey, so missing dates sort as "9999".
func CompareDates(a, b string) int {
	return strings.Compare(DateKey(a), DateKey(b))
}
