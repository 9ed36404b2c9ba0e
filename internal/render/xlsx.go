package render

import (
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// XLSXRenderer writes one worksheet with a header row, the section rows
// and a totals row per currency.
type XLSXRenderer struct{}

func (XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXRenderer) Extension() string { return FormatXLSX }

func (XLSXRenderer) Render(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if r.Title != "" {
		sheet = sheetName(r.Title)
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	set := func(col, row int, v interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}

	for i, c := range r.Columns {
		if err := set(i+1, row, c.Label); err != nil {
			return err
		}
	}
	if len(r.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(r.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return err
		}
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return err
		}
	}
	row++

	multi := len(r.Sections) > 1
	for _, s := range r.Sections {
		if multi && s.Title != "" {
			if err := set(1, row, s.Title); err != nil {
				return err
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			_ = f.SetCellStyle(sheet, cell, cell, bold)
			row++
		}
		for _, values := range s.Rows {
			for i, c := range r.Columns {
				if i >= len(values) {
					break
				}
				var v interface{} = values[i]
				if c.Numeric {
					if n, err := strconv.ParseFloat(values[i], 64); err == nil {
						v = n
					}
				}
				if err := set(i+1, row, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	if len(r.Totals) > 0 {
		row++
		for _, t := range r.Totals {
			if err := set(1, row, "Total "+t.Currency); err != nil {
				return err
			}
			if err := set(len(r.Columns), row, t.Amount); err != nil {
				return err
			}
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(max(len(r.Columns), 1), row)
			_ = f.SetCellStyle(sheet, first, last, bold)
			row++
		}
	}

	return f.Write(w)
}

// sheetName trims a title to Excel's 31 character limit and strips
// characters sheet names may not contain.
func sheetName(title string) string {
	out := make([]rune, 0, 31)
	for _, r := range title {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, r)
		if len(out) == 31 {
			break
		}
	}
	if len(out) == 0 {
		return "Sheet1"
	}
	return string(out)
}
