package executor

import (
	"context"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/catalog"
	"github.com/giantswarm/testctl/pkg/logging"
)

// Acknowledge returns an executor that completes immediately with
// {service, <flag>: true}. It stands in for actions that have no backing
// integration yet.
func Acknowledge(opts Options, verb, success, failure, flag string) Executor {
	return Func(func(ctx context.Context, service string, params map[string]interface{}) api.ExecutionResult {
		logging.Info("Executor", "%s for service: %s", verb, service)
		return opts.run(ctx, params, simulation{
			success: success,
			failure: failure,
			data: map[string]interface{}{
				"service": service,
				flag:      true,
			},
		})
	})
}

func generateTests(opts Options) Executor {
	return Func(func(ctx context.Context, service string, params map[string]interface{}) api.ExecutionResult {
		testType := stringParam(params, "testType", "")
		logging.Info("Executor", "Generating %s tests for service: %s", testType, service)
		return opts.run(ctx, params, simulation{
			success: "Test generation completed",
			failure: "Test generation failed",
			data: map[string]interface{}{
				"service":   service,
				"testType":  testType,
				"generated": true,
			},
		})
	})
}

// Deps are the collaborators of the default executors.
type Deps struct {
	Catalog *catalog.Catalog
	Options Options
	Health  HealthConfig
	History HistorySource
}

// DefaultActions returns an executor for every action except RUN_TESTS,
// which is dispatched by test type (see DefaultTestTypes).
func DefaultActions(d Deps) map[api.ActionType]Executor {
	cat := d.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	integration, _ := NewTestRunner(api.TestTypeIntegration, d.Options)

	return map[api.ActionType]Executor{
		api.ActionRunPerformanceTests: NewPerformance(d.Options),
		api.ActionRunSecurityTests:    NewSecurity(d.Options),
		api.ActionRunIntegrationTests: integration,
		api.ActionRunChaosTests:       NewChaos(d.Options),
		api.ActionAnalyzeFailures:     NewFailureAnalyzer(d.History),
		api.ActionGenerateTests:       generateTests(d.Options),
		api.ActionOptimizeTests: Acknowledge(d.Options, "Optimizing tests",
			"Test optimization completed", "Test optimization failed", "optimized"),
		api.ActionHealthCheck: NewHealth(cat, d.Health),
		api.ActionMonitorSystem: Acknowledge(d.Options, "Monitoring system",
			"System monitoring completed", "System monitoring failed", "monitored"),
		api.ActionGenerateReport: NewReporter(d.History),
		api.ActionSelfHeal: Acknowledge(d.Options, "Performing self-heal",
			"Self-heal completed", "Self-heal failed", "healed"),
		api.ActionScaleResources: Acknowledge(d.Options, "Scaling resources",
			"Resource scaling completed", "Resource scaling failed", "scaled"),
	}
}

// DefaultTestTypes returns the RUN_TESTS executor for every test type.
// Performance, security, penetration and chaos tests share the dedicated
// executors; every other kind gets its TestRunner.
func DefaultTestTypes(opts Options) map[api.TestType]Executor {
	security := NewSecurity(opts)
	executors := map[api.TestType]Executor{
		api.TestTypePerformance: NewPerformance(opts),
		api.TestTypeSecurity:    security,
		api.TestTypePenetration: security,
		api.TestTypeChaos:       NewChaos(opts),
	}
	for tt := range testProfiles {
		runner, _ := NewTestRunner(tt, opts)
		executors[tt] = runner
	}
	return executors
}
