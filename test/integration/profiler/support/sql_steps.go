package support

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
	"github.com/cucumber/godog"
)

func (testCtx *TestContext) iNormalizeTheStatement(stmt string) error {
	testCtx.LastOutput = profiler.NormalizeSQL(stmt)
	return nil
}

func (testCtx *TestContext) iNormalizeTheDocString(doc *godog.DocString) error {
	testCtx.LastOutput = profiler.NormalizeSQL(doc.Content)
	return nil
}

func (testCtx *TestContext) theKeyShouldBe(want string) error {
	if testCtx.LastOutput != want {
		return fmt.Errorf("expected key %q, got %q", want, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theKeyShouldHaveNoRedundantWhitespace() error {
	key := testCtx.LastOutput
	if strings.TrimSpace(key) != key || strings.Contains(key, "  ") || strings.ContainsAny(key, "\t\n\r\v\f") {
		return fmt.Errorf("key %q has redundant whitespace", key)
	}
	return nil
}

// RegisterSQLSteps registers the SQL normalization steps.
func (testCtx *TestContext) RegisterSQLSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I normalize the statement "([^"]*)"$`, testCtx.iNormalizeTheStatement)
	sc.Step(`^I normalize the statement:$`, testCtx.iNormalizeTheDocString)
	sc.Step(`^the key should be "([^"]*)"$`, testCtx.theKeyShouldBe)
	sc.Step(`^the key should have no redundant whitespace$`, testCtx.theKeyShouldHaveNoRedundantWhitespace)
}
