package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"billing-backend/internal/billing"
	"billing-backend/internal/listing"
	"billing-backend/internal/timeutil"
)

// listFlags are the pipeline inputs shared by every list command.
type listFlags struct {
	search   string
	statuses []string
	sort     string
	dir      string
	quarter  string
	year     int
	group    bool
	page     int
	table    bool
	columns  string
}

func (f *listFlags) register(cmd *cobra.Command, kind string) {
	fl := cmd.Flags()
	fl.StringVar(&f.search, "search", "", "case-insensitive text search")
	fl.StringSliceVar(&f.statuses, "status", nil, "only these statuses (repeatable or comma separated)")
	fl.StringVar(&f.sort, "sort", "", "sort key: "+strings.Join(listing.SortKeys(kind), ", "))
	fl.StringVar(&f.dir, "dir", "", "sort direction override: asc or desc")
	fl.StringVar(&f.quarter, "quarter", "", "only records in this quarter (Q1-Q4)")
	fl.IntVar(&f.year, "year", 0, "only records in this year")
	fl.BoolVar(&f.group, "group", false, "group by year and quarter")
	fl.IntVar(&f.page, "page", 1, "page number in list mode")
	fl.BoolVar(&f.table, "table", false, "table mode: every row and column, no paging")
	fl.StringVar(&f.columns, "columns", "", "comma separated columns to show")
}

func (f *listFlags) params() (billing.ViewParams, error) {
	p := billing.ViewParams{
		Search:  f.search,
		SortKey: f.sort,
		Year:    f.year,
		Page:    f.page - 1,
		GroupBy: billing.GroupNone,
		Mode:    billing.ModeList,
	}
	for _, s := range f.statuses {
		if s = strings.TrimSpace(s); s != "" {
			p.Statuses = append(p.Statuses, billing.NormalizeStatus(s))
		}
	}
	switch strings.ToLower(f.dir) {
	case "":
	case string(billing.SortAsc):
		p.SortDir = billing.SortAsc
	case string(billing.SortDesc):
		p.SortDir = billing.SortDesc
	default:
		return p, fmt.Errorf("invalid --dir %q: expected asc or desc", f.dir)
	}
	if f.quarter != "" {
		q, ok := billing.ParseQuarter(f.quarter)
		if !ok {
			return p, fmt.Errorf("invalid --quarter %q: expected Q1-Q4", f.quarter)
		}
		p.Quarter = q
	}
	if f.group {
		p.GroupBy = billing.GroupYearQuarter
	}
	if f.table {
		p.Mode = billing.ModeTable
	}
	return p, nil
}

// listCommand builds "<kind> list" for one record kind.
func listCommand[T any](kind string, schema billing.Schema[T], cols []listing.Column[T], fetch func(ctx context.Context) ([]T, error)) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + kind + " with search, filters, sorting and grouping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.params()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			records, err := fetch(ctx)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", kind, err)
			}
			now := timeutil.Now()
			proj := schema.Apply(records, p, now)
			visible := listing.VisibleColumns(cols, listing.ParseColumns(cols, f.columns))
			return printProjection(cmd.OutOrStdout(), proj, visible, now)
		},
	}
	f.register(cmd, kind)
	return cmd
}

func printProjection[T any](out io.Writer, proj billing.Projection[T], cols []listing.Column[T], now time.Time) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	switch {
	case len(proj.Groups) > 0:
		for _, g := range proj.Groups {
			fmt.Fprintf(w, "\n== %s (%d) %s\n", g.Label, len(g.Items), formatTotals(g.Totals))
			writeRows(w, g.Items, cols, now)
		}
	case len(proj.Buckets) > 0:
		for _, b := range proj.Buckets {
			fmt.Fprintf(w, "\n-- %s\n", b.Label)
			writeRows(w, b.Items, cols, now)
		}
	default:
		writeRows(w, proj.Items, cols, now)
	}

	fmt.Fprintln(w)
	if proj.PageSize > 0 {
		fmt.Fprintf(w, "Page %d of %d, %d records\n", proj.Page+1, proj.MaxPage+1, proj.Count)
	} else {
		fmt.Fprintf(w, "%d records\n", proj.Count)
	}
	fmt.Fprintf(w, "Total: %s\n", formatTotals(proj.Totals))
	return w.Flush()
}

func writeRows[T any](w io.Writer, items []T, cols []listing.Column[T], now time.Time) {
	labels := make([]string, len(cols))
	for i, c := range cols {
		labels[i] = strings.ToUpper(c.Label)
	}
	fmt.Fprintln(w, strings.Join(labels, "\t"))
	for _, item := range items {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.Value(item, now)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
}

func formatTotals(t billing.CurrencyTotals) string {
	entries := t.Entries()
	if len(entries) == 0 {
		return "-"
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s %.2f", e.Currency, e.Amount)
	}
	return strings.Join(parts, ", ")
}
