package support

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MeKo-Tech/ioprof/internal/report"
	"github.com/cucumber/godog"
	"gopkg.in/yaml.v3"
)

func (testCtx *TestContext) iRenderTheReportAs(format string) error {
	testCtx.LastOutput, testCtx.LastError = report.Render(testCtx.Report, format)
	return nil
}

func (testCtx *TestContext) theRenderingShouldFail() error {
	if testCtx.LastError == nil {
		return fmt.Errorf("expected rendering to fail, got output %q", testCtx.LastOutput)
	}
	return nil
}

// unquote undoes the \" escapes a step argument uses for embedded quotes.
func unquote(text string) string {
	return strings.ReplaceAll(text, `\"`, `"`)
}

func (testCtx *TestContext) theOutputShouldContain(text string) error {
	text = unquote(text)
	if testCtx.LastError != nil {
		return fmt.Errorf("unexpected error: %w", testCtx.LastError)
	}
	if !strings.Contains(testCtx.LastOutput, text) {
		return fmt.Errorf("output does not contain %q:\n%s", text, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldNotContain(text string) error {
	text = unquote(text)
	if strings.Contains(testCtx.LastOutput, text) {
		return fmt.Errorf("output unexpectedly contains %q:\n%s", text, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldBeValid(format string) error {
	if testCtx.LastError != nil {
		return fmt.Errorf("unexpected error: %w", testCtx.LastError)
	}
	switch format {
	case "JSON":
		var v map[string]any
		return json.Unmarshal([]byte(testCtx.LastOutput), &v)
	case "YAML":
		var v map[string]any
		return yaml.Unmarshal([]byte(testCtx.LastOutput), &v)
	case "CSV":
		_, err := csv.NewReader(strings.NewReader(testCtx.LastOutput)).ReadAll()
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// RegisterRenderSteps registers the report rendering steps.
func (testCtx *TestContext) RegisterRenderSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I render the report as "([^"]*)"$`, testCtx.iRenderTheReportAs)
	sc.Step(`^the rendering should fail$`, testCtx.theRenderingShouldFail)
	sc.Step(`^the output should contain "(.*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should not contain "(.*)"$`, testCtx.theOutputShouldNotContain)
	sc.Step(`^the output should be valid (JSON|YAML|CSV)$`, testCtx.theOutputShouldBeValid)
}
