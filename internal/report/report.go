// Package report renders profiler reports as HTML, plain text, JSON, YAML and
// CSV.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
)

// Output formats understood by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
	FormatHTML = "html"
)

// ErrUnknownFormat is returned by Render for formats it does not know.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats returns the supported output formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML, FormatCSV, FormatHTML}
}

// Render renders r in the given format. An empty format means text.
func Render(r profiler.Report, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return ToText(r), nil
	case FormatJSON:
		return ToJSON(r)
	case FormatYAML:
		return ToYAML(r)
	case FormatCSV:
		return ToCSV(r)
	case FormatHTML:
		return ToHTML(r)
	default:
		return "", fmt.Errorf("%w: %q (must be one of: %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatCSV:
		return "text/csv"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Percent returns part as an integer percentage of total, truncated toward
// zero. A zero total yields 0.
func Percent(part, total int64) int64 {
	if total == 0 {
		return 0
	}
	return 100 * part / total
}
