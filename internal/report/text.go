package report

import (
	"strings"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ToText renders r as an aligned plain-text table. Numbers are grouped using
// English conventions. An empty report yields an empty string.
func ToText(r profiler.Report) string {
	return ToTextLang(r, language.English)
}

// ToTextLang renders r like ToText with numbers formatted for tag.
func ToTextLang(r profiler.Report, tag language.Tag) string {
	if r.Empty() {
		return ""
	}

	p := message.NewPrinter(tag)
	var b strings.Builder
	total := r.Script.TotalTime

	for _, category := range r.CategoryNames() {
		b.WriteString(p.Sprintf("%s operations\n", category))
		b.WriteString(p.Sprintf("  %4s  %6s  %10s  %s\n", "#", "Dups", "Duration", "Operation"))
		for i, le := range r.Labels(category) {
			b.WriteString(p.Sprintf("  %4d  %6d  %7d ms  %s\n", i+1, le.Count, le.Time, le.Label))
		}
		b.WriteString("\n")
	}

	b.WriteString("Totals\n")
	for _, category := range r.CategoryNames() {
		e := r.Totals[category]
		b.WriteString(p.Sprintf("  %7d ms (%3d%%) on %d %s operations\n",
			e.Time, Percent(e.Time, total), e.Count, category))
	}
	b.WriteString(p.Sprintf("  %7d ms (%3d%%) on application and unmetered I/O\n",
		r.Script.Time, Percent(r.Script.Time, total)))
	b.WriteString(p.Sprintf("  TOTAL %d ms\n", total))
	return b.String()
}
