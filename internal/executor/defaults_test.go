package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/testctl/internal/api"
)

func TestDefaultActions_Coverage(t *testing.T) {
	actions := DefaultActions(Deps{})

	for _, action := range api.AllActionTypes() {
		if action == api.ActionRunTests {
			assert.NotContains(t, actions, action)
			continue
		}
		assert.Contains(t, actions, action)
	}
}

func TestDefaultActions_Acknowledgements(t *testing.T) {
	tests := []struct {
		action  api.ActionType
		message string
		flag    string
	}{
		{api.ActionOptimizeTests, "Test optimization completed", "optimized"},
		{api.ActionMonitorSystem, "System monitoring completed", "monitored"},
		{api.ActionSelfHeal, "Self-heal completed", "healed"},
		{api.ActionScaleResources, "Resource scaling completed", "scaled"},
	}

	actions := DefaultActions(Deps{})
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			result := actions[tt.action].Execute(context.Background(), "order-service", nil)

			assert.True(t, result.Success)
			assert.Equal(t, tt.message, result.Message)
			assert.Equal(t, "order-service", result.Data["service"])
			assert.Equal(t, true, result.Data[tt.flag])
		})
	}
}

func TestDefaultActions_GenerateTests(t *testing.T) {
	actions := DefaultActions(Deps{})

	result := actions[api.ActionGenerateTests].Execute(context.Background(), "user-service",
		map[string]interface{}{"testType": string(api.TestTypeContract)})

	assert.True(t, result.Success)
	assert.Equal(t, "Test generation completed", result.Message)
	assert.Equal(t, string(api.TestTypeContract), result.Data["testType"])
	assert.Equal(t, true, result.Data["generated"])
}

func TestDefaultActions_IntegrationRunner(t *testing.T) {
	actions := DefaultActions(Deps{})

	result := actions[api.ActionRunIntegrationTests].Execute(context.Background(), "user-service", nil)
	assert.True(t, result.Success)
	assert.Equal(t, "Integration tests executed successfully", result.Message)
}

func TestDefaultActions_HistoryBacked(t *testing.T) {
	actions := DefaultActions(Deps{History: sampleHistory()})

	result := actions[api.ActionAnalyzeFailures].Execute(context.Background(), "all", nil)
	require.True(t, result.Success)
	assert.Equal(t, 2, result.Data["count"])

	result = actions[api.ActionGenerateReport].Execute(context.Background(), "all", nil)
	require.True(t, result.Success)
	assert.Equal(t, 3, result.Data["executions"])
}

func TestDefaultTestTypes_Coverage(t *testing.T) {
	executors := DefaultTestTypes(Options{})

	for _, tt := range api.AllTestTypes() {
		assert.Contains(t, executors, tt)
	}
	assert.Len(t, executors, len(api.AllTestTypes()))
	assert.Same(t, executors[api.TestTypeSecurity], executors[api.TestTypePenetration])
}

func TestDefaultTestTypes_Dispatch(t *testing.T) {
	executors := DefaultTestTypes(Options{})
	ctx := context.Background()

	assert.Equal(t, "Chaos test executed successfully", executors[api.TestTypeChaos].Execute(ctx, "order-service", nil).Message)
	assert.Equal(t, "Performance test executed successfully", executors[api.TestTypePerformance].Execute(ctx, "order-service", nil).Message)
	assert.Equal(t, "Smoke tests executed successfully", executors[api.TestTypeSmoke].Execute(ctx, "order-service", nil).Message)

	result := executors[api.TestTypePenetration].Execute(ctx, "user-service",
		map[string]interface{}{"testType": string(api.TestTypePenetration)})
	assert.Equal(t, "penetration", result.Data["scanType"])
}
