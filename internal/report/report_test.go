package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// exampleReport mirrors the canonical example run: two test spans on one
// label, one on another, one test2 span, 1675 ms in total.
func exampleReport() profiler.Report {
	return profiler.Report{
		Categories: map[string]map[string]profiler.Entry{
			"test": {
				"123456789": {Count: 2, Time: 950},
				"different": {Count: 1, Time: 125},
			},
			"test2": {
				"123456789": {Count: 1, Time: 80},
			},
		},
		Totals: map[string]profiler.Entry{
			"test":  {Count: 3, Time: 1075},
			"test2": {Count: 1, Time: 80},
		},
		Script: profiler.Script{Count: 1, Time: 520, TotalTime: 1675},
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name        string
		part, total int64
		want        int64
	}{
		{"zero total", 10, 0, 0},
		{"half", 50, 100, 50},
		{"truncated", 1075, 1675, 64},
		{"negative part", -20, 100, -20},
		{"over total", 300, 100, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.part, tt.total))
		})
	}
}

func TestRender_Dispatch(t *testing.T) {
	r := exampleReport()
	for _, format := range append(Formats(), "", "JSON") {
		t.Run("format "+format, func(t *testing.T) {
			out, err := Render(r, format)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}

	_, err := Render(r, "xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	assert.Contains(t, err.Error(), "xml")
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", ContentType(FormatJSON))
	assert.Equal(t, "application/yaml", ContentType(FormatYAML))
	assert.Equal(t, "text/csv", ContentType(FormatCSV))
	assert.Equal(t, "text/html; charset=utf-8", ContentType(FormatHTML))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType(FormatText))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType(""))
}

func TestToHTML(t *testing.T) {
	out, err := ToHTML(exampleReport())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<table class="ioprofiler">`))
	assert.Contains(t, out, "<th>test Operation</th>")
	assert.Contains(t, out, "<th>test2 Operation</th>")
	assert.Contains(t, out, "<tr><td>1</td><td>2</td><td>123456789</td><td>950 ms</td></tr>")
	assert.Contains(t, out, "<tr><td>2</td><td>1</td><td>different</td><td>125 ms</td></tr>")
	assert.Contains(t, out, "1075 ms (64%) on <u>3</u> test operations<br />")
	assert.Contains(t, out, "80 ms (4%) on <u>1</u> test2 operations<br />")
	assert.Contains(t, out, "520 ms (31%) on application and unmetered I/O<br />")
	assert.Contains(t, out, "TOTAL 1675 ms")
	assert.Equal(t, 2, strings.Count(out, "<tbody>"))
}

func TestToHTML_EscapesLabels(t *testing.T) {
	r := profiler.Report{
		Categories: map[string]map[string]profiler.Entry{
			"sql": {"SELECT * FROM t WHERE a < 3 AND b = '<script>'": {Count: 1, Time: 1}},
		},
		Totals: map[string]profiler.Entry{"sql": {Count: 1, Time: 1}},
		Script: profiler.Script{Count: 1, Time: 0, TotalTime: 1},
	}

	out, err := ToHTML(r)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "a &lt; 3")
}

func TestToHTML_ZeroTotal(t *testing.T) {
	r := profiler.Report{
		Categories: map[string]map[string]profiler.Entry{},
		Totals:     map[string]profiler.Entry{},
		Script:     profiler.Script{Count: 1},
	}

	out, err := ToHTML(r)
	require.NoError(t, err)
	assert.Contains(t, out, "0 ms (0%) on application and unmetered I/O")
	assert.Contains(t, out, "TOTAL 0 ms")
}

func TestToHTML_Empty(t *testing.T) {
	out, err := ToHTML(profiler.Report{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestToText(t *testing.T) {
	out := ToText(exampleReport())

	assert.Contains(t, out, "test operations")
	assert.Contains(t, out, "test2 operations")
	assert.Contains(t, out, "123456789")
	assert.Contains(t, out, "on 3 test operations")
	assert.Contains(t, out, "on application and unmetered I/O")
	assert.Contains(t, out, "TOTAL 1,675 ms")

	// Slowest label first.
	assert.Less(t, strings.Index(out, "123456789"), strings.Index(out, "different"))
}

func TestToTextLang(t *testing.T) {
	out := ToTextLang(exampleReport(), language.German)
	assert.Contains(t, out, "TOTAL 1.675 ms")
}

func TestToText_Empty(t *testing.T) {
	assert.Empty(t, ToText(profiler.Report{}))
}

func TestToJSON(t *testing.T) {
	out, err := ToJSON(exampleReport())
	require.NoError(t, err)

	var tree map[string]map[string]map[string]int64
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.EqualValues(t, 1675, tree[profiler.TotalsKey][profiler.ScriptKey]["total_time"])
	assert.EqualValues(t, 950, tree["test"]["123456789"]["time"])

	empty, err := ToJSON(profiler.Report{})
	require.NoError(t, err)
	assert.JSONEq(t, "{}", empty)
}

func TestToYAML(t *testing.T) {
	out, err := ToYAML(exampleReport())
	require.NoError(t, err)
	assert.Contains(t, out, profiler.TotalsKey+":")
	assert.Contains(t, out, "total_time: 1675")

	empty, err := ToYAML(profiler.Report{})
	require.NoError(t, err)
	assert.Equal(t, "{}\n", empty)
}

func TestToCSV(t *testing.T) {
	out, err := ToCSV(exampleReport())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+3+2+1)

	assert.Equal(t, []string{"category", "label", "count", "time_ms"}, rows[0])
	assert.Equal(t, []string{"test", "123456789", "2", "950"}, rows[1])
	assert.Equal(t, []string{"test", "different", "1", "125"}, rows[2])
	assert.Equal(t, []string{"test2", "123456789", "1", "80"}, rows[3])
	assert.Equal(t, []string{profiler.TotalsKey, "test", "3", "1075"}, rows[4])
	assert.Equal(t, []string{profiler.TotalsKey, "test2", "1", "80"}, rows[5])
	assert.Equal(t, []string{profiler.TotalsKey, profiler.ScriptKey, "1", "520"}, rows[6])
}

func TestToCSV_Empty(t *testing.T) {
	out, err := ToCSV(profiler.Report{})
	require.NoError(t, err)
	assert.Equal(t, "category,label,count,time_ms\n", out)
}
