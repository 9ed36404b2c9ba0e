package render

import (
	"io"

	"github.com/jung-kurt/gofpdf/v2"
)

// PDFRenderer renders A4 documents with gofpdf.
type PDFRenderer struct{}

func (PDFRenderer) ContentType() string { return "application/pdf" }
func (PDFRenderer) Extension() string   { return FormatPDF }

const pageWidth = 190.0

func (PDFRenderer) Render(w io.Writer, r Report) error {
	orientation := "P"
	width := pageWidth
	if len(r.Columns) > 7 {
		orientation = "L"
		width = 277
	}

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	title := r.Title
	if r.Badge != "" {
		title += "  [" + r.Badge + "]"
	}
	pdf.CellFormat(width, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if r.Company != "" {
		pdf.CellFormat(width, 5, tr(r.Company), "", 1, "L", false, 0, "")
	}
	if r.Subtitle != "" {
		pdf.CellFormat(width, 5, tr(r.Subtitle), "", 1, "L", false, 0, "")
	}
	if !r.GeneratedAt.IsZero() {
		pdf.CellFormat(width, 5, "Generated: "+r.GeneratedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Fields
	for _, f := range r.Fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 6, tr(f.Label), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(width-45, 6, tr(f.Value), "", 1, "L", false, 0, "")
	}
	if len(r.Fields) > 0 {
		pdf.Ln(4)
	}

	colWidth := width
	if len(r.Columns) > 0 {
		colWidth = width / float64(len(r.Columns))
	}

	for _, s := range r.Sections {
		if s.Title != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.SetFillColor(240, 240, 240)
			pdf.CellFormat(width, 8, tr(s.Title), "1", 1, "L", true, 0, "")
		}

		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(200, 200, 200)
		for _, c := range r.Columns {
			pdf.CellFormat(colWidth, 7, tr(c.Label), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range s.Rows {
			for i, c := range r.Columns {
				value := ""
				if i < len(row) {
					value = row[i]
				}
				align := "L"
				if c.Numeric {
					align = "R"
				}
				pdf.CellFormat(colWidth, 6, tr(truncate(pdf, value, colWidth-2)), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}

		if len(s.Totals) > 0 {
			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(width, 7, tr("Subtotal: "+formatTotals(s.Totals)), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	if len(r.Summary) > 0 {
		for _, f := range r.Summary {
			pdf.SetFont("Arial", "", 10)
			pdf.CellFormat(width-40, 6, tr(f.Label), "", 0, "R", false, 0, "")
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(40, 6, tr(f.Value), "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	if len(r.Totals) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(220, 235, 255)
		pdf.CellFormat(width, 9, tr("Total: "+formatTotals(r.Totals)), "1", 1, "R", true, 0, "")
	}

	for _, n := range r.Notes {
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(width, 5, tr(n), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// truncate shortens s with an ellipsis until it fits in width mm.
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
