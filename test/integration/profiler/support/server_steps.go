package support

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/MeKo-Tech/ioprof/internal/server"
	"github.com/cucumber/godog"
)

func (testCtx *TestContext) aRunningProfilingServer() error {
	testCtx.Server = server.NewServer(server.Config{StreamInterval: time.Hour},
		server.WithClock(testCtx.Clock),
		server.WithSwitch(testCtx.Switch),
		server.WithSleep(func(d time.Duration) { testCtx.Clock.Advance(d.Milliseconds()) }),
	)
	testCtx.HTTPServer = httptest.NewServer(testCtx.Server.Handler())
	return nil
}

func (testCtx *TestContext) iSendARequestTo(method, path string) error {
	if testCtx.HTTPServer == nil {
		return fmt.Errorf("no server is running")
	}

	req, err := http.NewRequestWithContext(context.Background(), method, testCtx.HTTPServer.URL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := testCtx.HTTPServer.Client().Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	testCtx.LastHTTPStatusCode = resp.StatusCode
	testCtx.LastOutput = string(body)
	testCtx.LastError = nil
	testCtx.LastHTTPHeaders = map[string]string{}
	for k := range resp.Header {
		testCtx.LastHTTPHeaders[k] = resp.Header.Get(k)
	}
	return nil
}

func (testCtx *TestContext) theResponseStatusShouldBe(code int) error {
	if testCtx.LastHTTPStatusCode != code {
		return fmt.Errorf("expected status %d, got %d: %s", code, testCtx.LastHTTPStatusCode, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theResponseHeaderShouldBe(name, value string) error {
	if got := testCtx.LastHTTPHeaders[http.CanonicalHeaderKey(name)]; got != value {
		return fmt.Errorf("expected header %s=%q, got %q", name, value, got)
	}
	return nil
}

func (testCtx *TestContext) iTakeTheRunReport() error {
	if testCtx.Server == nil {
		return fmt.Errorf("no server is running")
	}
	testCtx.Report = testCtx.Server.RunReport()
	return nil
}

// RegisterServerSteps registers the HTTP server steps.
func (testCtx *TestContext) RegisterServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a running profiling server$`, testCtx.aRunningProfilingServer)
	sc.Step(`^I send a (GET|POST) request to "([^"]*)"$`, testCtx.iSendARequestTo)
	sc.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, testCtx.theResponseHeaderShouldBe)
	sc.Step(`^I take the run report$`, testCtx.iTakeTheRunReport)
}
