package executor

import (
	"context"
	"time"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/template"
	"github.com/giantswarm/testctl/pkg/logging"
)

type testProfile struct {
	label string
	delay time.Duration
	data  map[string]interface{}
}

// testProfiles are the canned outcomes of the functional test kinds.
var testProfiles = map[api.TestType]testProfile{
	api.TestTypeUnit: {"Unit", 2000 * time.Millisecond, map[string]interface{}{
		"testsRun": 45, "testsPassed": 43, "testsFailed": 2, "coverage": "87.5%", "duration": "2.3s",
	}},
	api.TestTypeIntegration: {"Integration", 5000 * time.Millisecond, map[string]interface{}{
		"testsRun": 12, "testsPassed": 11, "testsFailed": 1, "duration": "4.8s",
	}},
	api.TestTypeAPI: {"API", 3000 * time.Millisecond, map[string]interface{}{
		"endpointsTested": 8, "testsPassed": 8, "testsFailed": 0, "avgResponseTime": "145ms", "duration": "2.9s",
	}},
	api.TestTypeContract: {"Contract", 2500 * time.Millisecond, map[string]interface{}{
		"contractsTested": 5, "contractsPassed": 5, "contractsFailed": 0, "duration": "2.4s",
	}},
	api.TestTypeEndToEnd: {"End-to-end", 8000 * time.Millisecond, map[string]interface{}{
		"scenariosTested": 3, "scenariosPassed": 3, "scenariosFailed": 0, "duration": "7.8s",
	}},
	api.TestTypeSmoke: {"Smoke", 1500 * time.Millisecond, map[string]interface{}{
		"testsRun": 6, "testsPassed": 6, "testsFailed": 0, "duration": "1.4s",
	}},
	api.TestTypeRegression: {"Regression", 6000 * time.Millisecond, map[string]interface{}{
		"testsRun": 28, "testsPassed": 27, "testsFailed": 1, "duration": "5.9s",
	}},
	api.TestTypeExploratory: {"Exploratory", 4000 * time.Millisecond, map[string]interface{}{
		"areasExplored": 4, "issuesFound": 2, "duration": "3.8s",
	}},
	api.TestTypeAccessibility: {"Accessibility", 3500 * time.Millisecond, map[string]interface{}{
		"pagesTested": 5, "violationsFound": 1, "wcagLevel": "AA", "duration": "3.4s",
	}},
	api.TestTypeCompatibility: {"Compatibility", 5000 * time.Millisecond, map[string]interface{}{
		"browsersTested": 4, "osTested": 3, "compatibilityIssues": 0, "duration": "4.9s",
	}},
	api.TestTypeLocalization: {"Localization", 3000 * time.Millisecond, map[string]interface{}{
		"languagesTested": 3, "localizationIssues": 0, "duration": "2.9s",
	}},
}

// TestRunner simulates a functional test suite of one kind.
type TestRunner struct {
	testType api.TestType
	profile  testProfile
	opts     Options
}

// NewTestRunner returns the runner for testType. Test kinds served by the
// chaos, performance or security executors have no runner.
func NewTestRunner(testType api.TestType, opts Options) (*TestRunner, error) {
	profile, ok := testProfiles[testType]
	if !ok {
		return nil, &api.UnsupportedTestTypeError{TestType: testType}
	}
	return &TestRunner{testType: testType, profile: profile, opts: opts}, nil
}

// Execute runs the simulated suite against service.
func (r *TestRunner) Execute(ctx context.Context, service string, params map[string]interface{}) api.ExecutionResult {
	logging.Info("Executor", "Executing %s tests for service: %s", r.profile.label, service)

	data := template.MergeContexts(map[string]interface{}{
		"service":  service,
		"testType": string(r.testType),
	}, r.profile.data)

	return r.opts.run(ctx, params, simulation{
		delay:   r.profile.delay,
		success: r.profile.label + " tests executed successfully",
		failure: r.profile.label + " test execution failed",
		data:    data,
	})
}
