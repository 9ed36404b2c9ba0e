package listing

import (
	"net/url"
	"strconv"
	"strings"

	"billing-backend/internal/billing"
)

// ParseViewParams reads pipeline inputs from query parameters:
// search, status (repeatable or comma separated), sort, dir, quarter, year,
// group, page, page_size and mode. Malformed values are ignored.
func ParseViewParams(q url.Values) billing.ViewParams {
	p := billing.ViewParams{
		Search:  strings.TrimSpace(q.Get("search")),
		SortKey: strings.TrimSpace(q.Get("sort")),
		GroupBy: billing.GroupNone,
		Mode:    billing.ModeList,
	}

	for _, raw := range q["status"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				p.Statuses = append(p.Statuses, billing.NormalizeStatus(s))
			}
		}
	}

	switch billing.SortDir(strings.ToLower(q.Get("dir"))) {
	case billing.SortAsc:
		p.SortDir = billing.SortAsc
	case billing.SortDesc:
		p.SortDir = billing.SortDesc
	}

	if qt, ok := billing.ParseQuarter(q.Get("quarter")); ok {
		p.Quarter = qt
	}
	if y, err := strconv.Atoi(q.Get("year")); err == nil && y > 0 {
		p.Year = y
	}
	if billing.GroupBy(q.Get("group")) == billing.GroupYearQuarter {
		p.GroupBy = billing.GroupYearQuarter
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n >= 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n > 0 && n <= 500 {
		p.PageSize = n
	}
	if billing.Mode(q.Get("mode")) == billing.ModeTable {
		p.Mode = billing.ModeTable
	}
	return p
}

// Encode writes p back into query parameters, omitting defaults.
func Encode(p billing.ViewParams) url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	for _, s := range p.Statuses {
		q.Add("status", s)
	}
	if p.SortKey != "" {
		q.Set("sort", p.SortKey)
	}
	if p.SortDir != "" {
		q.Set("dir", string(p.SortDir))
	}
	if p.Quarter != "" {
		q.Set("quarter", string(p.Quarter))
	}
	if p.Year != 0 {
		q.Set("year", strconv.Itoa(p.Year))
	}
	if p.GroupBy == billing.GroupYearQuarter {
		q.Set("group", string(p.GroupBy))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Mode == billing.ModeTable {
		q.Set("mode", string(p.Mode))
	}
	return q
}
