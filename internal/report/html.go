package report

import (
	"bytes"
	"html/template"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
)

var htmlTemplate = template.Must(template.New("ioprofiler").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<table class="ioprofiler">
{{- range .Categories}}
	<thead><tr><th>#</th><th>Dups</th><th>{{.Name}} Operation</th><th>Duration</th></tr></thead>
	<tbody>
{{- range $i, $row := .Rows}}
		<tr><td>{{inc $i}}</td><td>{{$row.Count}}</td><td>{{$row.Label}}</td><td>{{$row.Time}} ms</td></tr>
{{- end}}
	</tbody>
{{- end}}
	<tfoot><tr><th colspan="4">
{{- range .Totals}}
		{{.Time}} ms ({{.Percent}}%) on <u>{{.Count}}</u> {{.Name}} operations<br />
{{- end}}
		{{.Script.Time}} ms ({{.Script.Percent}}%) on application and unmetered I/O<br />
		TOTAL {{.Total}} ms
	</th></tr></tfoot>
</table>
`))

type htmlCategory struct {
	Name string
	Rows []profiler.LabelEntry
}

type htmlTotal struct {
	Name    string
	Count   int64
	Time    int64
	Percent int64
}

type htmlData struct {
	Categories []htmlCategory
	Totals     []htmlTotal
	Script     htmlTotal
	Total      int64
}

// ToHTML renders r as an HTML table with CSS class "ioprofiler": one block
// per category listing its operations, and a footer with per-category and
// residual shares of the run time. An empty report yields an empty string.
func ToHTML(r profiler.Report) (string, error) {
	if r.Empty() {
		return "", nil
	}

	total := r.Script.TotalTime
	data := htmlData{
		Script: htmlTotal{Time: r.Script.Time, Percent: Percent(r.Script.Time, total)},
		Total:  total,
	}
	for _, name := range r.CategoryNames() {
		data.Categories = append(data.Categories, htmlCategory{Name: name, Rows: r.Labels(name)})
		e := r.Totals[name]
		data.Totals = append(data.Totals, htmlTotal{
			Name:    name,
			Count:   e.Count,
			Time:    e.Time,
			Percent: Percent(e.Time, total),
		})
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
