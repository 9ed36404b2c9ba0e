package render

import (
	"encoding/csv"
	"io"
)

// CSVRenderer writes the header row and every section row. Section titles
// and totals are dropped so the output stays machine-readable.
type CSVRenderer struct{}

func (CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }
func (CSVRenderer) Extension() string   { return FormatCSV }

func (CSVRenderer) Render(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range r.Sections {
		for _, row := range s.Rows {
			out := make([]string, len(r.Columns))
			copy(out, row)
			if err := cw.Write(out); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
