package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/giantswarm/testctl/internal/analyzer"
	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/executor"
)

// recorder is an executor that records the services it was called for.
type recorder struct {
	mu      sync.Mutex
	calls   []string
	params  []map[string]interface{}
	success bool
}

func (r *recorder) Execute(_ context.Context, service string, params map[string]interface{}) api.ExecutionResult {
	r.mu.Lock()
	r.calls = append(r.calls, service)
	r.params = append(r.params, params)
	r.mu.Unlock()

	if r.success {
		return api.NewSuccessResult("ok", map[string]interface{}{"service": service})
	}
	return api.NewFailureResult("failed on " + service)
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type eventRecord struct {
	stepID    string
	eventType string
	data      map[string]interface{}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []eventRecord
}

func (e *eventRecorder) GenerateStepEvent(_ string, stepID string, eventType string, data map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, eventRecord{stepID: stepID, eventType: eventType, data: data})
}

func (e *eventRecorder) ofType(eventType string) []eventRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []eventRecord
	for _, ev := range e.events {
		if ev.eventType == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func newStep(action api.ActionType, service string, testType api.TestType, params map[string]interface{}) api.ExecutionStep {
	return api.ExecutionStep{
		StepID:      fmt.Sprintf("%s_%s_%s", action, service, testType),
		Name:        fmt.Sprintf("%s %s for %s", action, testType.DisplayName(), service),
		ActionType:  action,
		ServiceName: service,
		TestType:    testType,
		Parameters:  params,
		Status:      api.StatusPending,
	}
}

func newContext(strategy api.ExecutionStrategy, steps ...api.ExecutionStep) api.ComprehensiveContext {
	return api.ComprehensiveContext{
		Command:       "test command",
		ParsedCommand: api.ParsedCommand{OriginalCommand: "test command"},
		ExecutionPlan: api.ExecutionPlan{
			Steps:             steps,
			ExecutionOrder:    "SEQUENTIAL",
			ExecutionStrategy: strategy,
		},
		EstimatedDuration: "10 minutes",
	}
}

func TestExecuteAction_DispatchFailures(t *testing.T) {
	o := New(Config{})
	ctx := context.Background()

	tests := []struct {
		name     string
		action   api.ActionType
		service  string
		testType api.TestType
		message  string
	}{
		{"unknown action", "DEPLOY_TO_MARS", "user-service", "", "Unknown action type: DEPLOY_TO_MARS"},
		{"unsupported test type", api.ActionRunTests, "user-service", "TELEPATHY_TEST", "Unsupported test type: TELEPATHY_TEST"},
		{"run tests without a test type", api.ActionRunTests, "user-service", "", "Unsupported test type: "},
		{"health check of unknown service", api.ActionHealthCheck, "unknown-service", "", "Service not found: unknown-service"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := o.ExecuteAction(ctx, tt.action, tt.service, tt.testType, map[string]interface{}{})
			assert.False(t, result.Success)
			assert.Equal(t, tt.message, result.Message)
		})
	}
}

func TestExecuteAction_RecoversPanics(t *testing.T) {
	o := New(Config{})
	o.RegisterAction(api.ActionSelfHeal, executor.Func(func(context.Context, string, map[string]interface{}) api.ExecutionResult {
		panic("heal exploded")
	}))

	result := o.ExecuteAction(context.Background(), api.ActionSelfHeal, "order-service", "", nil)

	assert.False(t, result.Success)
	assert.Equal(t, "Action execution failed: heal exploded", result.Message)
	require.Len(t, o.History(), 1)
	assert.Equal(t, api.StatusFailed, o.History()[0].Status)
}

func TestExecuteAction_RunTestsDispatchesOnTestType(t *testing.T) {
	unit := &recorder{success: true}
	smoke := &recorder{success: true}
	o := New(Config{TestTypes: map[api.TestType]executor.Executor{api.TestTypeUnit: unit}})
	o.RegisterTestType(api.TestTypeSmoke, smoke)

	result := o.ExecuteAction(context.Background(), api.ActionRunTests, "user-service", api.TestTypeUnit, map[string]interface{}{"retries": 2})
	require.True(t, result.Success)
	assert.Equal(t, []string{"user-service"}, unit.Calls())
	assert.Empty(t, smoke.Calls())

	// The test type reaches the executor without mutating the caller's map.
	assert.Equal(t, string(api.TestTypeUnit), unit.params[0]["testType"])
	assert.Equal(t, 2, unit.params[0]["retries"])

	// The routed test type wins over a conflicting parameter.
	callerParams := map[string]interface{}{"testType": "CHAOS_TEST"}
	o.ExecuteAction(context.Background(), api.ActionRunTests, "product-service", api.TestTypeSmoke, callerParams)
	assert.Equal(t, []string{"product-service"}, smoke.Calls())
	assert.Equal(t, string(api.TestTypeSmoke), smoke.params[0]["testType"])
	assert.Equal(t, "CHAOS_TEST", callerParams["testType"])
}

func TestExecuteAction_DefaultExecutors(t *testing.T) {
	o := New(Config{})
	ctx := context.Background()

	result := o.ExecuteAction(ctx, api.ActionRunTests, "user-service", api.TestTypeUnit, nil)
	assert.True(t, result.Success)
	assert.Equal(t, "Unit tests executed successfully", result.Message)

	result = o.ExecuteAction(ctx, api.ActionGenerateTests, "user-service", api.TestTypeContract, nil)
	assert.True(t, result.Success)
	assert.Equal(t, string(api.TestTypeContract), result.Data["testType"])

	result = o.ExecuteAction(ctx, api.ActionRunSecurityTests, "user-service", api.TestTypePenetration, nil)
	assert.True(t, result.Success)
	assert.Equal(t, "penetration", result.Data["scanType"])
}

func TestExecuteAction_StepTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	stuck := executor.Func(func(context.Context, string, map[string]interface{}) api.ExecutionResult {
		<-block
		return api.NewSuccessResult("too late", nil)
	})

	t.Run("timeout parameter", func(t *testing.T) {
		o := New(Config{})
		o.RegisterAction(api.ActionMonitorSystem, stuck)

		start := time.Now()
		result := o.ExecuteAction(context.Background(), api.ActionMonitorSystem, "gateway-service", "", map[string]interface{}{"timeout": "50ms"})

		assert.Less(t, time.Since(start), 2*time.Second)
		assert.False(t, result.Success)
		assert.Equal(t, "Step timed out after 50ms", result.Message)
	})

	t.Run("configured default", func(t *testing.T) {
		o := New(Config{StepTimeout: 30 * time.Millisecond})
		o.RegisterAction(api.ActionMonitorSystem, stuck)

		result := o.ExecuteAction(context.Background(), api.ActionMonitorSystem, "gateway-service", "", nil)

		assert.False(t, result.Success)
		assert.Equal(t, "Step timed out after 30ms", result.Message)
	})
}

func TestExecuteActions_SequentialHaltsOnCriticalFailure(t *testing.T) {
	unit := &recorder{success: true}
	chaos := &recorder{success: false}
	events := &eventRecorder{}
	o := New(Config{
		TestTypes: map[api.TestType]executor.Executor{
			api.TestTypeUnit:  unit,
			api.TestTypeChaos: chaos,
		},
		EventCallback: events,
	})

	cc := newContext(api.StrategySequential,
		newStep(api.ActionRunTests, "user-service", api.TestTypeUnit, nil),
		newStep(api.ActionRunTests, "order-service", api.TestTypeChaos, nil),
		newStep(api.ActionRunTests, "product-service", api.TestTypeUnit, nil),
		newStep(api.ActionRunTests, "gateway-service", api.TestTypeUnit, nil),
	)

	result := o.ExecuteActions(context.Background(), cc)

	assert.False(t, result.Success)
	assert.Equal(t, "Execution completed: 1/2 steps successful", result.Message)
	assert.Equal(t, []string{"user-service"}, unit.Calls())
	assert.Equal(t, []string{"order-service"}, chaos.Calls())

	assert.Equal(t, 2, result.Data["totalSteps"])
	assert.Equal(t, 1, result.Data["successfulSteps"])
	assert.Equal(t, 1, result.Data["failedSteps"])
	assert.Equal(t, 2, result.Data["skippedSteps"])
	assert.InDelta(t, 0.5, result.Data["successRate"], 1e-9)

	steps := result.Data["steps"].([]api.StepOutcome)
	require.Len(t, steps, 4)
	assert.Equal(t, api.StatusCompleted, steps[0].Status)
	assert.Equal(t, api.StatusFailed, steps[1].Status)
	assert.Equal(t, "failed on order-service", steps[1].Message)
	assert.Equal(t, api.StatusSkipped, steps[2].Status)
	assert.Equal(t, api.StatusSkipped, steps[3].Status)

	halted := events.ofType(EventExecutionHalted)
	require.Len(t, halted, 1)
	assert.Equal(t, "RUN_TESTS_order-service_CHAOS_TEST", halted[0].stepID)
	assert.Equal(t, 2, halted[0].data["skipped"])
	assert.Len(t, events.ofType(EventStepStarted), 2)
	assert.Len(t, events.ofType(EventStepFailed), 1)
}

func TestExecuteActions_CriticalSteps(t *testing.T) {
	tests := []struct {
		name     string
		step     api.ExecutionStep
		critical bool
	}{
		{"health check", newStep(api.ActionHealthCheck, "user-service", api.TestTypeUnit, nil), true},
		{"chaos action", newStep(api.ActionRunChaosTests, "user-service", api.TestTypeUnit, nil), true},
		{"chaos test type", newStep(api.ActionGenerateTests, "user-service", api.TestTypeChaos, nil), true},
		{"plain test", newStep(api.ActionGenerateTests, "user-service", api.TestTypeUnit, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failing := &recorder{success: false}
			after := &recorder{success: true}
			o := New(Config{})
			o.RegisterAction(tt.step.ActionType, failing)
			o.RegisterAction(api.ActionMonitorSystem, after)

			result := o.ExecuteActions(context.Background(), newContext(api.StrategySequential,
				tt.step,
				newStep(api.ActionMonitorSystem, "gateway-service", "", nil),
			))

			assert.False(t, result.Success)
			if tt.critical {
				assert.Empty(t, after.Calls())
				assert.Equal(t, 1, result.Data["skippedSteps"])
			} else {
				assert.Equal(t, []string{"gateway-service"}, after.Calls())
				assert.Equal(t, "Execution completed: 1/2 steps successful", result.Message)
			}
		})
	}
}

func TestExecuteActions_ParallelRunsStepsConcurrently(t *testing.T) {
	const n = 3
	var arrived sync.WaitGroup
	arrived.Add(n)
	all := make(chan struct{})
	go func() {
		arrived.Wait()
		close(all)
	}()

	barrier := executor.Func(func(_ context.Context, service string, _ map[string]interface{}) api.ExecutionResult {
		arrived.Done()
		select {
		case <-all:
			return api.NewSuccessResult("ok "+service, nil)
		case <-time.After(2 * time.Second):
			return api.NewFailureResult("steps did not overlap")
		}
	})
	o := New(Config{TestTypes: map[api.TestType]executor.Executor{api.TestTypeUnit: barrier}})

	services := []string{"user-service", "product-service", "order-service"}
	var steps []api.ExecutionStep
	for _, svc := range services {
		steps = append(steps, newStep(api.ActionRunTests, svc, api.TestTypeUnit, nil))
	}

	result := o.ExecuteActions(context.Background(), newContext(api.StrategyParallel, steps...))

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "Execution completed: 3/3 steps successful", result.Message)
	assert.Equal(t, "PARALLEL", result.Data["executionStrategy"])

	outcomes := result.Data["steps"].([]api.StepOutcome)
	require.Len(t, outcomes, n)
	for i, svc := range services {
		assert.Equal(t, svc, outcomes[i].ServiceName)
		assert.Equal(t, "ok "+svc, outcomes[i].Message)
	}
}

func TestExecuteActions_ParallelHonoursConcurrencyLimit(t *testing.T) {
	var current, peak atomic.Int32
	counting := executor.Func(func(context.Context, string, map[string]interface{}) api.ExecutionResult {
		now := current.Add(1)
		for {
			old := peak.Load()
			if now <= old || peak.CompareAndSwap(old, now) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		current.Add(-1)
		return api.NewSuccessResult("ok", nil)
	})

	o := New(Config{
		MaxConcurrency: 1,
		DispatchRate:   1000,
		TestTypes:      map[api.TestType]executor.Executor{api.TestTypeUnit: counting},
	})

	result := o.ExecuteActions(context.Background(), newContext(api.StrategyParallel,
		newStep(api.ActionRunTests, "user-service", api.TestTypeUnit, nil),
		newStep(api.ActionRunTests, "product-service", api.TestTypeUnit, nil),
		newStep(api.ActionRunTests, "order-service", api.TestTypeUnit, nil),
	))

	assert.True(t, result.Success)
	assert.Equal(t, int32(1), peak.Load())
}

func TestExecuteActions_EmptyPlan(t *testing.T) {
	o := New(Config{})

	result := o.ExecuteActions(context.Background(), newContext(api.StrategySequential))

	assert.True(t, result.Success)
	assert.Equal(t, "Execution completed: 0/0 steps successful", result.Message)
	assert.Equal(t, 0, result.Data["totalSteps"])
	assert.Equal(t, 0.0, result.Data["successRate"])
	assert.Equal(t, "test command", result.Data["originalCommand"])
	assert.Equal(t, "10 minutes", result.Data["estimatedDuration"])
	assert.NotEmpty(t, result.Data["executionId"])
	assert.NotEmpty(t, result.Data["actualDuration"])
}

func TestExecuteActions_AnalyzedCommand(t *testing.T) {
	a := analyzer.New(analyzer.Config{})
	o := New(Config{})
	ctx := context.Background()

	cc := a.AnalyzeCommand(ctx, "run integration tests for user-service and product-service")
	result := o.ExecuteActions(ctx, cc)

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "Execution completed: 2/2 steps successful", result.Message)
	assert.Equal(t, "SEQUENTIAL", result.Data["executionStrategy"])
	assert.Equal(t, "30 minutes", result.Data["estimatedDuration"])
	assert.Equal(t, "run integration tests for user-service and product-service", result.Data["originalCommand"])

	history := o.History()
	require.Len(t, history, 1)
	assert.Equal(t, api.StatusCompleted, history[0].Status)
	assert.Equal(t, result.Data["executionId"], history[0].ExecutionID)
	assert.Len(t, history[0].Steps, 2)
}

func TestStartActions_Cancel(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	waiting := executor.Func(func(ctx context.Context, _ string, _ map[string]interface{}) api.ExecutionResult {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return api.NewFailureResult("monitoring stopped: " + ctx.Err().Error())
	})

	o := New(Config{})
	o.RegisterAction(api.ActionMonitorSystem, waiting)

	id, done := o.StartActions(context.Background(), newContext(api.StrategySequential,
		newStep(api.ActionMonitorSystem, "gateway-service", "", nil),
		newStep(api.ActionMonitorSystem, "user-service", "", nil),
	))
	require.NotEmpty(t, id)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("execution did not start")
	}
	assert.Contains(t, o.ActiveExecutions(), id)
	assert.Equal(t, api.StatusRunning, o.ActiveExecutions()[id].Status)

	assert.True(t, o.CancelExecution(id))
	assert.NotContains(t, o.ActiveExecutions(), id)
	assert.False(t, o.CancelExecution(id))

	var result api.ExecutionResult
	select {
	case result = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled execution did not finish")
	}

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Data["totalSteps"])
	assert.Equal(t, 1, result.Data["cancelledSteps"])

	record, err := o.GetExecution(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, api.StatusCancelled, record.Status)
	assert.NotNil(t, record.CompletedAt)
}

func TestCancelExecution_Unknown(t *testing.T) {
	assert.False(t, New(Config{}).CancelExecution("does-not-exist"))
}

func TestGetExecution_NotFound(t *testing.T) {
	_, err := New(Config{}).GetExecution(context.Background(), "does-not-exist")
	assert.True(t, api.IsNotFound(err))
}

func TestHistory_FeedsFailureAnalysis(t *testing.T) {
	o := New(Config{TestTypes: map[api.TestType]executor.Executor{api.TestTypeUnit: &recorder{success: false}}})
	ctx := context.Background()

	o.ExecuteActions(ctx, newContext(api.StrategySequential,
		newStep(api.ActionRunTests, "product-service", api.TestTypeUnit, nil),
	))

	result := o.ExecuteAction(ctx, api.ActionAnalyzeFailures, "product-service", "", nil)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Data["count"])

	result = o.ExecuteAction(ctx, api.ActionGenerateReport, "all", "", nil)
	require.True(t, result.Success)
	assert.Equal(t, 2, result.Data["executions"])
	assert.Contains(t, result.Data["report"], "failed on product-service")
}

func TestHistory_Bounded(t *testing.T) {
	o := New(Config{HistorySize: 2})
	for i := 0; i < 3; i++ {
		o.ExecuteAction(context.Background(), api.ActionOptimizeTests, fmt.Sprintf("svc-%d", i), "", nil)
	}

	history := o.History()
	require.Len(t, history, 2)
	assert.Equal(t, "OPTIMIZE_TESTS svc-2", history[0].Command)
	assert.Equal(t, "OPTIMIZE_TESTS svc-1", history[1].Command)
}

func TestExecuteActions_Tracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	o := New(Config{
		Tracer: tp.Tracer("orchestrator-test"),
		TestTypes: map[api.TestType]executor.Executor{
			api.TestTypeUnit:  &recorder{success: true},
			api.TestTypeSmoke: &recorder{success: false},
		},
	})

	o.ExecuteActions(context.Background(), newContext(api.StrategyParallel,
		newStep(api.ActionRunTests, "user-service", api.TestTypeUnit, nil),
		newStep(api.ActionRunTests, "user-service", api.TestTypeSmoke, nil),
	))

	spans := sr.Ended()
	require.Len(t, spans, 3)

	byName := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range spans {
		byName[s.Name()] = s
	}
	require.Contains(t, byName, "ExecuteActions")
	require.Contains(t, byName, "step RUN_TESTS_user-service_UNIT_TEST")
	require.Contains(t, byName, "step RUN_TESTS_user-service_SMOKE_TEST")

	root := byName["ExecuteActions"]
	assert.Equal(t, codes.Error, root.Status().Code)
	assert.Equal(t, codes.Error, byName["step RUN_TESTS_user-service_SMOKE_TEST"].Status().Code)
	assert.Equal(t, root.SpanContext().SpanID(), byName["step RUN_TESTS_user-service_UNIT_TEST"].Parent().SpanID())
}
