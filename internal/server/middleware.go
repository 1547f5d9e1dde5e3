package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware adds CORS headers to responses.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.config.CORSOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		// Cache preflight results for a day to reduce OPTIONS traffic
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		// Wrap response writer to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		start := time.Now()
		next(rw, r)
		duration := time.Since(start)

		// Record metrics
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, http.StatusText(rw.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration.Seconds())
	}
}

// profileMiddleware gives the request its own Profiler, reachable through
// profiler.FromContext. Once the handler returns, the request's categories
// are merged into the run profiler and exported as metrics.
func (s *Server) profileMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := s.newRequestProfiler()
		next(w, r.WithContext(profiler.NewContext(r.Context(), p)))

		rep := p.ReportData()
		if rep.Empty() {
			return
		}
		s.run.Merge(rep)
		if s.config.MetricsEnabled {
			recordReport(rep)
		}
		slog.Debug("Request profiled",
			"path", r.URL.Path,
			"io_ms", rep.IOTime(),
			"total_ms", rep.Script.TotalTime,
			"categories", len(rep.Categories))
	}
}
