// Package render turns structured report data into printable and
// downloadable documents. Business code builds a Report and picks a
// DocumentRenderer by format; it never touches a template or PDF engine.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"billing-backend/internal/billing"
)

// Column describes one table column.
type Column struct {
	Key     string
	Label   string
	Numeric bool
}

// Field is a labelled value shown above or below a table.
type Field struct {
	Label string
	Value string
}

// Section is one titled table, e.g. a year/quarter group or an invoice's
// line items.
type Section struct {
	Title  string
	Rows   [][]string
	Totals []billing.CurrencyAmount
}

// Report is the renderer input.
type Report struct {
	Title       string
	Subtitle    string
	Company     string
	GeneratedAt time.Time
	Fields      []Field
	Columns     []Column
	Sections    []Section
	Summary     []Field
	Notes       []string
	Totals      []billing.CurrencyAmount
	// Badge is a status shown next to the title (e.g. "Overdue").
	Badge string
}

// RowCount returns the number of data rows over all sections.
func (r Report) RowCount() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Rows)
	}
	return n
}

// DocumentRenderer writes a Report in one output format.
type DocumentRenderer interface {
	Render(w io.Writer, r Report) error
	ContentType() string
	Extension() string
}

// Output formats
const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Formats lists every supported format.
var Formats = []string{FormatPDF, FormatHTML, FormatXLSX, FormatCSV}

// ForFormat returns the renderer for format (case-insensitive).
func ForFormat(format string) (DocumentRenderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatPDF:
		return PDFRenderer{}, nil
	case FormatHTML, "":
		return HTMLRenderer{}, nil
	case FormatXLSX:
		return XLSXRenderer{}, nil
	case FormatCSV:
		return CSVRenderer{}, nil
	}
	return nil, billing.NewValidationError("format", fmt.Sprintf("unsupported format %q", format))
}

// Filename builds a download name such as "invoices-2024-06-15.pdf".
func Filename(base string, at time.Time, d DocumentRenderer) string {
	return fmt.Sprintf("%s-%s.%s", base, at.Format("2006-01-02"), d.Extension())
}

func formatTotals(totals []billing.CurrencyAmount) string {
	parts := make([]string, 0, len(totals))
	for _, t := range totals {
		parts = append(parts, fmt.Sprintf("%s %.2f", t.Currency, t.Amount))
	}
	return strings.Join(parts, " · ")
}
