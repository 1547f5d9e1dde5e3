package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
	"github.com/MeKo-Tech/ioprof/internal/report"
	"github.com/MeKo-Tech/ioprof/internal/version"
)

// demoSpan is one simulated operation of the demo endpoint.
type demoSpan struct {
	category string
	label    string
	duration time.Duration
}

// demoSpans mimic a typical page load: a lookup, a cache fill and a write.
var demoSpans = []demoSpan{
	{profiler.SQLCategory, "SELECT id, name FROM users WHERE id = ?", 12 * time.Millisecond},
	{"cache", "set user:42", 2 * time.Millisecond},
	{profiler.SQLCategory, "update users\n   set last_seen = now()\n where id = ?", 8 * time.Millisecond},
	{"cache", "get user:42", 1 * time.Millisecond},
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:    "healthy",
		Version:   version.Version,
		Time:      time.Now().UTC().Format(time.RFC3339),
		Profiling: s.sw.IsEnabled(),
	}
	s.writeJSON(w, http.StatusOK, response)
}

// reportHandler renders the run report in the format named by ?format=.
func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := r.URL.Query().Get("format")
	out, err := report.Render(s.run.ReportData(), format)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, report.ErrUnknownFormat) {
			status = http.StatusBadRequest
		}
		s.writeErrorResponse(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", report.ContentType(format))
	if _, err := w.Write([]byte(out)); err != nil {
		slog.Error("Failed to write report response", "error", err)
	}
}

// profilingStatusHandler reports whether profiling is switched on.
func (s *Server) profilingStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, ProfilingResponse{Enabled: s.sw.IsEnabled()})
}

// profilingToggleHandler switches profiling on or off.
func (s *Server) profilingToggleHandler(enable bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if enable {
			s.sw.Enable()
		} else {
			s.sw.Disable()
		}
		profilingEnabled.Set(boolToFloat(enable))
		slog.Info("Profiling switched", "enabled", enable, "remote_addr", r.RemoteAddr)

		s.writeJSON(w, http.StatusOK, ProfilingResponse{Enabled: s.sw.IsEnabled()})
	}
}

// demoHandler performs a few simulated I/O operations on the request
// profiler and returns the request report as JSON.
func (s *Server) demoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := profiler.FromContext(r.Context())
	if p == nil {
		s.writeErrorResponse(w, "No request profiler", http.StatusInternalServerError)
		return
	}

	for _, span := range demoSpans {
		start := p.Now()
		s.sleep(time.Duration(float64(span.duration) * s.config.DemoScale))
		p.Log(span.category, span.label, start)
	}

	s.writeJSON(w, http.StatusOK, p.ReportData())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, statusCode, ErrorResponse{Success: false, Error: message})
}
