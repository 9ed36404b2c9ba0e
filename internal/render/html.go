package render

import (
	"html/template"
	"io"
)

// HTMLRenderer renders a print-ready HTML page; the browser's print
// dialog turns it into paper or PDF.
type HTMLRenderer struct{}

func (HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }
func (HTMLRenderer) Extension() string   { return FormatHTML }

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"totals": formatTotals,
	"cell": func(row []string, i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; font-size: 12px; color: #111; margin: 24px; }
  h1 { font-size: 20px; margin: 0 0 4px; }
  h2 { font-size: 14px; margin: 18px 0 6px; }
  .muted { color: #666; }
  .badge { display: inline-block; padding: 2px 8px; border-radius: 10px; background: #eee; font-size: 11px; margin-left: 8px; vertical-align: middle; }
  table { width: 100%; border-collapse: collapse; margin-top: 6px; }
  th, td { border: 1px solid #ddd; padding: 4px 6px; text-align: left; }
  th { background: #f3f3f3; }
  td.num, th.num { text-align: right; font-variant-numeric: tabular-nums; }
  dl { display: grid; grid-template-columns: 160px 1fr; gap: 2px 12px; }
  dt { font-weight: 600; }
  .summary { margin-left: auto; width: 280px; }
  .total { font-weight: 700; font-size: 14px; text-align: right; margin-top: 12px; }
  @media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>{{.Title}}{{if .Badge}}<span class="badge">{{.Badge}}</span>{{end}}</h1>
{{if .Company}}<div class="muted">{{.Company}}</div>{{end}}
{{if .Subtitle}}<div class="muted">{{.Subtitle}}</div>{{end}}
{{if not .GeneratedAt.IsZero}}<div class="muted">Generated {{.GeneratedAt.Format "02 Jan 2006 15:04"}}</div>{{end}}
{{if .Fields}}<dl>{{range .Fields}}<dt>{{.Label}}</dt><dd>{{.Value}}</dd>{{end}}</dl>{{end}}
{{$cols := .Columns}}
{{range .Sections}}
{{if .Title}}<h2>{{.Title}}</h2>{{end}}
<table>
<thead><tr>{{range $cols}}<th{{if .Numeric}} class="num"{{end}}>{{.Label}}</th>{{end}}</tr></thead>
<tbody>
{{range $row := .Rows}}<tr>{{range $i, $c := $cols}}<td{{if $c.Numeric}} class="num"{{end}}>{{cell $row $i}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{if .Totals}}<div class="total">{{totals .Totals}}</div>{{end}}
{{end}}
{{if .Summary}}<table class="summary">{{range .Summary}}<tr><td>{{.Label}}</td><td class="num">{{.Value}}</td></tr>{{end}}</table>{{end}}
{{if .Totals}}<div class="total">Total: {{totals .Totals}}</div>{{end}}
{{range .Notes}}<p>{{.}}</p>{{end}}
</body>
</html>
`))

func (HTMLRenderer) Render(w io.Writer, r Report) error {
	return htmlTemplate.Execute(w, r)
}
