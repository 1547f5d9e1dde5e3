package support

import (
	"fmt"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
	"github.com/cucumber/godog"
)

func (testCtx *TestContext) profilingIs(state string) error {
	if state == "enabled" {
		testCtx.Switch.Enable()
	} else {
		testCtx.Switch.Disable()
	}
	return nil
}

func (testCtx *TestContext) iSwitchProfiling(state string) error {
	if state == "on" {
		testCtx.Switch.Enable()
	} else {
		testCtx.Switch.Disable()
	}
	return nil
}

func (testCtx *TestContext) aProfilerStartedAt(ms int) error {
	testCtx.Clock.Set(profiler.Timestamp(ms))
	testCtx.Profiler = profiler.New(profiler.WithClock(testCtx.Clock), profiler.WithSwitch(testCtx.Switch))
	return nil
}

func (testCtx *TestContext) millisecondsPass(ms int) error {
	testCtx.Clock.Advance(int64(ms))
	return nil
}

func (testCtx *TestContext) iLogASpanLasting(category, label string, ms int) error {
	if err := testCtx.requireProfiler(); err != nil {
		return err
	}
	start := testCtx.Clock.Now()
	testCtx.Clock.Advance(int64(ms))
	testCtx.Profiler.Log(category, label, start)
	return nil
}

func (testCtx *TestContext) iLogASpanStartingAt(category, label string, startMs int) error {
	if err := testCtx.requireProfiler(); err != nil {
		return err
	}
	testCtx.Profiler.Log(category, label, profiler.Timestamp(startMs))
	return nil
}

func (testCtx *TestContext) iTakeTheReport() error {
	if err := testCtx.requireProfiler(); err != nil {
		return err
	}
	testCtx.Report = testCtx.Profiler.ReportData()
	return nil
}

func (testCtx *TestContext) theReportShouldBeEmpty() error {
	if !testCtx.Report.Empty() {
		return fmt.Errorf("expected empty report, got %d categories", len(testCtx.Report.Categories))
	}
	return nil
}

func (testCtx *TestContext) labelShouldHave(category, label string, count, ms int) error {
	labels, ok := testCtx.Report.Categories[category]
	if !ok {
		return fmt.Errorf("category %q not in report", category)
	}
	e, ok := labels[label]
	if !ok {
		return fmt.Errorf("label %q not in category %q", label, category)
	}
	want := profiler.Entry{Count: int64(count), Time: int64(ms)}
	if e != want {
		return fmt.Errorf("category %q label %q: expected %+v, got %+v", category, label, want, e)
	}
	return nil
}

func (testCtx *TestContext) categoryShouldTotal(category string, count, ms int) error {
	e, ok := testCtx.Report.Totals[category]
	if !ok {
		return fmt.Errorf("category %q has no total", category)
	}
	want := profiler.Entry{Count: int64(count), Time: int64(ms)}
	if e != want {
		return fmt.Errorf("total of %q: expected %+v, got %+v", category, want, e)
	}
	return nil
}

func (testCtx *TestContext) theResidualShouldBe(residual, total int) error {
	s := testCtx.Report.Script
	if s.Time != int64(residual) || s.TotalTime != int64(total) || s.Count != 1 {
		return fmt.Errorf("expected residual %d of %d ms, got %+v", residual, total, s)
	}
	return nil
}

func (testCtx *TestContext) theReportShouldNotContainCategory(category string) error {
	if _, ok := testCtx.Report.Categories[category]; ok {
		return fmt.Errorf("category %q unexpectedly present", category)
	}
	if _, ok := testCtx.Report.Totals[category]; ok {
		return fmt.Errorf("category %q unexpectedly totaled", category)
	}
	return nil
}

func (testCtx *TestContext) categoryShouldHaveLabels(category string, n int) error {
	if got := len(testCtx.Report.Categories[category]); got != n {
		return fmt.Errorf("category %q: expected %d labels, got %d", category, n, got)
	}
	return nil
}

// RegisterProfilerSteps registers the steps driving a profiler directly.
func (testCtx *TestContext) RegisterProfilerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^profiling is (enabled|disabled)$`, testCtx.profilingIs)
	sc.Step(`^I switch profiling (on|off)$`, testCtx.iSwitchProfiling)
	sc.Step(`^a profiler started at (\d+) ms$`, testCtx.aProfilerStartedAt)
	sc.Step(`^(\d+) ms pass$`, testCtx.millisecondsPass)
	sc.Step(`^I log a "([^"]*)" span "([^"]*)" lasting (\d+) ms$`, testCtx.iLogASpanLasting)
	sc.Step(`^I log a "([^"]*)" span "([^"]*)" that started at (\d+) ms$`, testCtx.iLogASpanStartingAt)
	sc.Step(`^I take the report$`, testCtx.iTakeTheReport)
	sc.Step(`^the report should be empty$`, testCtx.theReportShouldBeEmpty)
	sc.Step(`^category "([^"]*)" label "([^"]*)" should have count (\d+) and time (-?\d+) ms$`, testCtx.labelShouldHave)
	sc.Step(`^category "([^"]*)" should total count (\d+) and time (-?\d+) ms$`, testCtx.categoryShouldTotal)
	sc.Step(`^the residual should be (-?\d+) ms of (\d+) ms$`, testCtx.theResidualShouldBe)
	sc.Step(`^the report should not contain category "([^"]*)"$`, testCtx.theReportShouldNotContainCategory)
	sc.Step(`^category "([^"]*)" should have (\d+) labels?$`, testCtx.categoryShouldHaveLabels)
}
