package support

import (
	"fmt"
	"net/http/httptest"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
	"github.com/MeKo-Tech/ioprof/internal/server"
	"github.com/MeKo-Tech/ioprof/internal/testutil"
)

// TestContext holds the state of one scenario. Every scenario gets its own
// clock and switch, so scenarios never touch the process-wide switch.
type TestContext struct {
	// Profiling state
	Clock    *testutil.ManualClock
	Switch   *profiler.Switch
	Profiler *profiler.Profiler
	Report   profiler.Report

	// Last produced text (rendered report, normalized key, HTTP body)
	LastOutput string
	LastError  error

	// Server state
	Server             *server.Server
	HTTPServer         *httptest.Server
	LastHTTPStatusCode int
	LastHTTPHeaders    map[string]string
}

// NewTestContext creates a new test context with profiling switched on and
// the clock at zero.
func NewTestContext() *TestContext {
	sw := &profiler.Switch{}
	sw.Enable()
	return &TestContext{
		Clock:           testutil.NewManualClock(0),
		Switch:          sw,
		LastHTTPHeaders: map[string]string{},
	}
}

// Cleanup stops the HTTP server if one was started.
func (testCtx *TestContext) Cleanup() error {
	if testCtx.HTTPServer != nil {
		testCtx.HTTPServer.Close()
		testCtx.HTTPServer = nil
	}
	return nil
}

// requireProfiler returns an error when no profiler was created yet.
func (testCtx *TestContext) requireProfiler() error {
	if testCtx.Profiler == nil {
		return fmt.Errorf("no profiler has been created in this scenario")
	}
	return nil
}
