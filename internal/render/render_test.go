package render

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billing-backend/internal/billing"
)

func sampleReport() Report {
	return Report{
		Title:       "Invoices",
		Subtitle:    "2024 Q2",
		Company:     "Acme Agency",
		GeneratedAt: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		Columns: []Column{
			{Key: "number", Label: "Number"},
			{Key: "title", Label: "Title"},
			{Key: "total", Label: "Total", Numeric: true},
		},
		Sections: []Section{
			{
				Title: "2024 Q2",
				Rows: [][]string{
					{"INV-000001", "Website <redesign>", "1200.00"},
					{"INV-000002", "Hosting, yearly", "99.50"},
				},
				Totals: []billing.CurrencyAmount{{Currency: "EUR", Amount: 1299.5}},
			},
		},
		Totals: []billing.CurrencyAmount{{Currency: "EUR", Amount: 1299.5}},
		Notes:  []string{"Payment within 14 days."},
	}
}

func TestForFormat(t *testing.T) {
	for _, f := range Formats {
		r, err := ForFormat(strings.ToUpper(f))
		require.NoError(t, err, f)
		assert.Equal(t, f, r.Extension())
		assert.NotEmpty(t, r.ContentType())
	}

	_, err := ForFormat("docx")
	var verr *billing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "format")
}

func TestFilename(t *testing.T) {
	at := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "invoices-2024-06-15.xlsx", Filename("invoices", at, XLSXRenderer{}))
}

func TestPDFRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDFRenderer{}.Render(&buf, sampleReport()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestPDFRenderer_WideTableAndNoRows(t *testing.T) {
	r := Report{Title: "Expenses"}
	for i := 0; i < 10; i++ {
		r.Columns = append(r.Columns, Column{Key: string(rune('a' + i)), Label: strings.Repeat("X", 30)})
	}
	r.Sections = []Section{{Rows: [][]string{{strings.Repeat("long value ", 20)}}}}

	var buf bytes.Buffer
	require.NoError(t, PDFRenderer{}.Render(&buf, r))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestHTMLRenderer(t *testing.T) {
	r := sampleReport()
	r.Badge = "Overdue"
	r.Fields = []Field{{Label: "Account", Value: "Hotel Seaside"}}

	var buf bytes.Buffer
	require.NoError(t, HTMLRenderer{}.Render(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "<title>Invoices</title>")
	assert.Contains(t, out, "Overdue")
	assert.Contains(t, out, "Hotel Seaside")
	assert.Contains(t, out, "Website &lt;redesign&gt;")
	assert.NotContains(t, out, "Website <redesign>")
	assert.Contains(t, out, "EUR 1299.50")
	assert.Contains(t, out, "Payment within 14 days.")
}

func TestXLSXRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSXRenderer{}.Render(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, []string{"Number", "Title", "Total"}, rows[0])
	assert.Equal(t, "INV-000001", rows[1][0])
	assert.Equal(t, "1200", rows[1][2])
	assert.Equal(t, "Total EUR", rows[len(rows)-1][0])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", sheetName("[]"))
	assert.Equal(t, "Q2 2024", sheetName("Q2 2024"))
	assert.Len(t, []rune(sheetName(strings.Repeat("a", 40))), 31)
	assert.Equal(t, "ab", sheetName("a/b"))
}

func TestCSVRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVRenderer{}.Render(&buf, sampleReport()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Number", "Title", "Total"}, records[0])
	assert.Equal(t, []string{"INV-000002", "Hosting, yearly", "99.50"}, records[2])
}

func TestReportRowCount(t *testing.T) {
	r := sampleReport()
	r.Sections = append(r.Sections, Section{Rows: [][]string{{"x"}}})
	assert.Equal(t, 3, r.RowCount())
}
