package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/testctl/internal/api"
)

type staticHistory []api.ExecutionRecord

func (h staticHistory) History() []api.ExecutionRecord { return h }

func sampleHistory() staticHistory {
	started := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	return staticHistory{
		{
			ExecutionID: "2f7c9d1e-aaaa-bbbb-cccc-000000000002",
			Command:     "run chaos tests on order-service",
			Status:      api.StatusFailed,
			DurationMs:  1200,
			Steps: []api.StepOutcome{
				{
					StepID:      "RUN_TESTS_order-service_CHAOS_TEST",
					ActionType:  api.ActionRunTests,
					ServiceName: "order-service",
					TestType:    api.TestTypeChaos,
					Status:      api.StatusFailed,
					Message:     "Chaos test execution failed: simulated failure",
					StartedAt:   started,
					DurationMs:  1200,
				},
			},
		},
		{
			ExecutionID: "8b1e4a7c-aaaa-bbbb-cccc-000000000001",
			Command:     "run unit tests for users and products",
			Status:      api.StatusFailed,
			DurationMs:  300,
			Steps: []api.StepOutcome{
				{StepID: "RUN_TESTS_user-service_UNIT_TEST", ServiceName: "user-service", TestType: api.TestTypeUnit, Status: api.StatusCompleted},
				{StepID: "RUN_TESTS_product-service_UNIT_TEST", ServiceName: "product-service", TestType: api.TestTypeUnit, Status: api.StatusFailed, Message: "boom", StartedAt: started},
			},
		},
		{
			ExecutionID: "0c3d5e6f-aaaa-bbbb-cccc-000000000000",
			Status:      api.StatusCompleted,
			Steps: []api.StepOutcome{
				{StepID: "HEALTH_CHECK_gateway-service_UNIT_TEST", ServiceName: "gateway-service", Status: api.StatusCompleted},
			},
		},
	}
}

func TestFailureAnalyzer_Failures(t *testing.T) {
	f := NewFailureAnalyzer(sampleHistory())

	all := f.Failures("all")
	require.Len(t, all, 2)
	assert.Equal(t, "RUN_TESTS_order-service_CHAOS_TEST", all[0].StepID)
	assert.Equal(t, "2f7c9d1e-aaaa-bbbb-cccc-000000000002", all[0].ExecutionID)
	assert.Equal(t, time.Date(2026, 10, 17, 9, 0, 1, 200_000_000, time.UTC), all[0].FailedAt)
	assert.Equal(t, "RUN_TESTS_product-service_UNIT_TEST", all[1].StepID)

	assert.Len(t, f.Failures(""), 2)
	assert.Len(t, f.Failures("product-service"), 1)
	assert.Empty(t, f.Failures("gateway-service"))
}

func TestFailureAnalyzer_Execute(t *testing.T) {
	result := NewFailureAnalyzer(sampleHistory()).Execute(context.Background(), "order-service", nil)

	assert.True(t, result.Success)
	assert.Equal(t, "Failure analysis completed", result.Message)
	assert.Equal(t, 1, result.Data["count"])
	assert.Len(t, result.Data["failures"], 1)

	result = NewFailureAnalyzer(nil).Execute(context.Background(), "order-service", nil)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Data["count"])
}

func TestReporter_Report(t *testing.T) {
	r := NewReporter(sampleHistory())

	text, count, err := r.Report("all")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Contains(t, text, "Scope: all services")
	assert.Contains(t, text, "Executions: 3 (1 succeeded, 2 failed)")
	assert.Contains(t, text, `2f7c9d1e FAILED    1200ms "run chaos tests on order-service"`)
	assert.Contains(t, text, "FAILED    RUN_TESTS_order-service_CHAOS_TEST: Chaos test execution failed: simulated failure")
	assert.Contains(t, text, `0c3d5e6f COMPLETED 0ms "-"`)

	text, count, err = r.Report("user-service")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Contains(t, text, "Scope: user-service")
	assert.NotContains(t, text, "order-service")
}

func TestReporter_Empty(t *testing.T) {
	text, count, err := NewReporter(nil).Report("")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Contains(t, text, "No executions recorded.")
}

func TestReporter_Execute(t *testing.T) {
	result := NewReporter(sampleHistory()).Execute(context.Background(), "gateway-service", nil)

	assert.True(t, result.Success)
	assert.Equal(t, "Report generation completed", result.Message)
	assert.Equal(t, 1, result.Data["executions"])
	assert.Contains(t, result.Data["report"], "HEALTH_CHECK_gateway-service_UNIT_TEST")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result = NewReporter(sampleHistory()).Execute(ctx, "gateway-service", nil)
	assert.False(t, result.Success)
}
