package server

import (
	"github.com/MeKo-Tech/ioprof/internal/profiler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ioprof_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ioprof_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Span metrics exported from request reports
	spanOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ioprof_span_operations_total",
			Help: "Total number of profiled operations",
		},
		[]string{"category"},
	)

	spanTimeMillisecondsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ioprof_span_time_milliseconds_total",
			Help: "Total time spent in profiled operations",
		},
		[]string{"category"},
	)

	// Counters cannot go down, so negative category totals (clock steps
	// backwards) are tracked on their own.
	spanNegativeTimeMillisecondsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ioprof_span_negative_time_milliseconds_total",
			Help: "Magnitude of negative category time reported by requests",
		},
		[]string{"category"},
	)

	requestResidualMilliseconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ioprof_request_residual_milliseconds",
			Help:    "Per-request time not attributed to any category",
			Buckets: []float64{-100, -10, 0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	profilingEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ioprof_profiling_enabled",
			Help: "1 when profiling is switched on",
		},
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ioprof_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ioprof_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)

// recordReport exports the category totals of a request report.
func recordReport(r profiler.Report) {
	if r.Empty() {
		return
	}
	for category, total := range r.Totals {
		if total.Count > 0 {
			spanOperationsTotal.WithLabelValues(category).Add(float64(total.Count))
		}
		if total.Time >= 0 {
			spanTimeMillisecondsTotal.WithLabelValues(category).Add(float64(total.Time))
		} else {
			spanNegativeTimeMillisecondsTotal.WithLabelValues(category).Add(float64(-total.Time))
		}
	}
	requestResidualMilliseconds.Observe(float64(r.Script.Time))
}
