package server

import (
	"net/http"
	"time"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the HTTP server state and the run profiler it reports on.
type Server struct {
	config Config
	sw     *profiler.Switch
	clock  profiler.Clock
	run    *profiler.Shared
	sleep  func(time.Duration)
}

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	CORSOrigin     string
	TimeoutSec     int
	StreamInterval time.Duration
	MetricsEnabled bool
	DemoScale      float64
}

// Option customizes a Server.
type Option func(*Server)

// WithSwitch makes the server use sw instead of the process-wide switch.
func WithSwitch(sw *profiler.Switch) Option {
	return func(s *Server) {
		if sw != nil {
			s.sw = sw
		}
	}
}

// WithClock makes every profiler the server creates read c.
func WithClock(c profiler.Clock) Option {
	return func(s *Server) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithSleep replaces time.Sleep in the demo endpoint.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Server) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// Response types for API endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Time      string `json:"time"`
	Profiling bool   `json:"profiling"`
}

type ProfilingResponse struct {
	Enabled bool `json:"enabled"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewServer creates a new profiling server. The run profiler starts now, so
// its residual time covers the whole lifetime of the server.
func NewServer(config Config, opts ...Option) *Server {
	s := &Server{
		config: config,
		sw:     profiler.DefaultSwitch(),
		clock:  profiler.SystemClock,
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config.StreamInterval <= 0 {
		s.config.StreamInterval = time.Second
	}
	if s.config.DemoScale <= 0 {
		s.config.DemoScale = 1
	}
	if s.config.CORSOrigin == "" {
		s.config.CORSOrigin = "*"
	}
	s.run = profiler.NewShared(profiler.WithClock(s.clock), profiler.WithSwitch(s.sw))
	profilingEnabled.Set(boolToFloat(s.sw.IsEnabled()))
	return s
}

// Switch returns the switch the server toggles.
func (s *Server) Switch() *profiler.Switch {
	return s.sw
}

// RunReport returns a snapshot of everything profiled since NewServer.
func (s *Server) RunReport() profiler.Report {
	return s.run.ReportData()
}

// newRequestProfiler returns a profiler for a single request sharing the
// server's clock and switch.
func (s *Server) newRequestProfiler() *profiler.Profiler {
	return profiler.New(profiler.WithClock(s.clock), profiler.WithSwitch(s.sw))
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/report", s.corsMiddleware(s.reportHandler))
	mux.HandleFunc("/profiling", s.corsMiddleware(s.profilingStatusHandler))
	mux.HandleFunc("/profiling/enable", s.corsMiddleware(s.profilingToggleHandler(true)))
	mux.HandleFunc("/profiling/disable", s.corsMiddleware(s.profilingToggleHandler(false)))
	mux.HandleFunc("/ws/report", s.reportWebSocketHandler)
	mux.HandleFunc("/demo", s.corsMiddleware(s.profileMiddleware(s.demoHandler)))
	if s.config.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
}

// Handler returns a ServeMux with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	return mux
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
