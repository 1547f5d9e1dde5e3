package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
	"gopkg.in/yaml.v3"
)

// ToJSON serializes r to pretty JSON.
func ToJSON(r profiler.Report) (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToYAML serializes r to YAML. An empty report yields "{}\n".
func ToYAML(r profiler.Report) (string, error) {
	b, err := yaml.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToCSV exports one row per label, then one row per category total under
// profiler.TotalsKey and the residual row under profiler.ScriptKey.
func ToCSV(r profiler.Report) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"category", "label", "count", "time_ms"})
	if r.Empty() {
		w.Flush()
		return buf.String(), w.Error()
	}

	for _, category := range r.CategoryNames() {
		for _, le := range r.Labels(category) {
			_ = w.Write([]string{category, le.Label, itoa(le.Count), itoa(le.Time)})
		}
	}
	for _, category := range r.CategoryNames() {
		total := r.Totals[category]
		_ = w.Write([]string{profiler.TotalsKey, category, itoa(total.Count), itoa(total.Time)})
	}
	_ = w.Write([]string{profiler.TotalsKey, profiler.ScriptKey, itoa(r.Script.Count), itoa(r.Script.Time)})
	w.Flush()
	return buf.String(), w.Error()
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
