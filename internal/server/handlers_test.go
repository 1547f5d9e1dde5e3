package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
	"github.com/MeKo-Tech/ioprof/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer returns a server with its own switch and a manual clock that
// the demo endpoint advances instead of sleeping.
func newTestServer(t *testing.T, cfg Config) (*Server, *testutil.ManualClock) {
	t.Helper()
	clock := testutil.NewManualClock(50_000)
	sw := &profiler.Switch{}
	sw.Enable()
	s := NewServer(cfg,
		WithClock(clock),
		WithSwitch(sw),
		WithSleep(func(d time.Duration) { clock.Advance(d.Milliseconds()) }),
	)
	return s, clock
}

func doRequest(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// decodeTree decodes a JSON report into its category entries.
func decodeTree(t *testing.T, body []byte) map[string]map[string]profiler.Entry {
	t.Helper()
	var raw map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))

	out := make(map[string]map[string]profiler.Entry, len(raw))
	for category, labels := range raw {
		if category == profiler.TotalsKey {
			continue
		}
		m := make(map[string]profiler.Entry, len(labels))
		for label, v := range labels {
			var e profiler.Entry
			require.NoError(t, json.Unmarshal(v, &e))
			m[label] = e
		}
		out[category] = m
	}
	return out
}

func TestNewServer_Defaults(t *testing.T) {
	s := NewServer(Config{})

	assert.Equal(t, time.Second, s.config.StreamInterval)
	assert.InDelta(t, 1.0, s.config.DemoScale, 1e-9)
	assert.Equal(t, "*", s.config.CORSOrigin)
	assert.Same(t, profiler.DefaultSwitch(), s.Switch())
}

func TestServer_HealthHandler(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	tests := []struct {
		name           string
		method         string
		expectedStatus int
		checkResponse  bool
	}{
		{name: "GET request success", method: "GET", expectedStatus: http.StatusOK, checkResponse: true},
		{name: "POST request not allowed", method: "POST", expectedStatus: http.StatusMethodNotAllowed},
		{name: "PUT request not allowed", method: "PUT", expectedStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s.Handler(), tt.method, "/health")
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.checkResponse {
				var response HealthResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, "healthy", response.Status)
				assert.NotEmpty(t, response.Time)
				assert.True(t, response.Profiling)
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestServer_DemoHandler(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := doRequest(t, s.Handler(), http.MethodGet, "/demo")
	require.Equal(t, http.StatusOK, w.Code)

	tree := decodeTree(t, w.Body.Bytes())
	assert.Equal(t, map[string]profiler.Entry{
		"SELECT id, name FROM users WHERE id = ?": {Count: 1, Time: 12},
		"UPDATE users": {Count: 1, Time: 8},
	}, tree[profiler.SQLCategory])
	assert.Equal(t, map[string]profiler.Entry{
		"set user:42": {Count: 1, Time: 2},
		"get user:42": {Count: 1, Time: 1},
	}, tree["cache"])
}

func TestServer_DemoHandler_Scale(t *testing.T) {
	s, _ := newTestServer(t, Config{DemoScale: 0.5})

	doRequest(t, s.Handler(), http.MethodGet, "/demo")

	r := s.RunReport()
	assert.Equal(t, profiler.Entry{Count: 2, Time: 10}, r.Totals[profiler.SQLCategory])
	assert.Equal(t, profiler.Entry{Count: 2, Time: 1}, r.Totals["cache"])
}

func TestServer_DemoHandler_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := doRequest(t, s.Handler(), http.MethodPost, "/demo")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_DemoHandler_WithoutProfiler(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	s.demoHandler(w, httptest.NewRequest(http.MethodGet, "/demo", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Success)
}

func TestServer_RunAccumulatesRequests(t *testing.T) {
	s, clock := newTestServer(t, Config{})
	h := s.Handler()

	doRequest(t, h, http.MethodGet, "/demo")
	clock.Advance(7)
	doRequest(t, h, http.MethodGet, "/demo")

	r := s.RunReport()
	assert.Equal(t, profiler.Entry{Count: 2, Time: 16}, r.Categories[profiler.SQLCategory]["UPDATE users"])
	assert.Equal(t, profiler.Entry{Count: 4, Time: 40}, r.Totals[profiler.SQLCategory])
	assert.Equal(t, profiler.Entry{Count: 4, Time: 6}, r.Totals["cache"])
	assert.Equal(t, profiler.Script{Count: 1, Time: 7, TotalTime: 53}, r.Script)
}

func TestServer_ReportHandler(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	h := s.Handler()
	doRequest(t, h, http.MethodGet, "/demo")

	tests := []struct {
		name        string
		target      string
		status      int
		contentType string
		contains    string
	}{
		{"default text", "/report", http.StatusOK, "text/plain; charset=utf-8", "TOTAL 23 ms"},
		{"json", "/report?format=json", http.StatusOK, "application/json", `"UPDATE users"`},
		{"yaml", "/report?format=yaml", http.StatusOK, "application/yaml", "UPDATE users:"},
		{"csv", "/report?format=csv", http.StatusOK, "text/csv", "sql,UPDATE users,1,8"},
		{"html", "/report?format=HTML", http.StatusOK, "text/html; charset=utf-8", "TOTAL 23 ms"},
		{"unknown", "/report?format=xml", http.StatusBadRequest, "application/json", "unknown report format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, h, http.MethodGet, tt.target)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}

	t.Run("method not allowed", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPost, "/report")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestServer_ReportHandler_Empty(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s, _ := newTestServer(t, Config{})
		s.Switch().Disable()

		w := doRequest(t, s.Handler(), http.MethodGet, "/report?format=json")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "{}", w.Body.String())
	})

	t.Run("enabled without spans", func(t *testing.T) {
		s, clock := newTestServer(t, Config{})
		clock.Advance(5)

		w := doRequest(t, s.Handler(), http.MethodGet, "/report?format=json")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"__TOTALS":{"__SCRIPT":{"count":1,"time":5,"total_time":5}}}`, w.Body.String())
	})
}

func TestServer_ProfilingToggle(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	h := s.Handler()

	status := func() ProfilingResponse {
		w := doRequest(t, h, http.MethodGet, "/profiling")
		require.Equal(t, http.StatusOK, w.Code)
		var resp ProfilingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	assert.True(t, status().Enabled)

	w := doRequest(t, h, http.MethodPost, "/profiling/disable")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, s.Switch().IsEnabled())
	assert.False(t, status().Enabled)

	// Requests while disabled leave the run untouched.
	doRequest(t, h, http.MethodGet, "/demo")
	w = doRequest(t, h, http.MethodPost, "/profiling/enable")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, status().Enabled)
	assert.Empty(t, s.RunReport().Categories)

	assert.Equal(t, http.StatusMethodNotAllowed, doRequest(t, h, http.MethodGet, "/profiling/enable").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, doRequest(t, h, http.MethodPost, "/profiling").Code)
}

func TestServer_CORS(t *testing.T) {
	s, _ := newTestServer(t, Config{CORSOrigin: "https://example.com"})
	h := s.Handler()

	w := doRequest(t, h, http.MethodOptions, "/report")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, w.Body.String())

	w = doRequest(t, h, http.MethodGet, "/health")
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_MetricsRoute(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		s, _ := newTestServer(t, Config{MetricsEnabled: true})
		h := s.Handler()
		doRequest(t, h, http.MethodGet, "/demo")

		w := doRequest(t, h, http.MethodGet, "/metrics")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.True(t, strings.Contains(body, "ioprof_span_operations_total"), "missing span counter")
		assert.Contains(t, body, "ioprof_profiling_enabled")
		assert.Contains(t, body, "ioprof_http_requests_total")
	})

	t.Run("disabled", func(t *testing.T) {
		s, _ := newTestServer(t, Config{})
		w := doRequest(t, s.Handler(), http.MethodGet, "/metrics")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
