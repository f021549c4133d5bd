package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/catalog"
	"github.com/giantswarm/testctl/internal/executor"
	"github.com/giantswarm/testctl/internal/template"
	"github.com/giantswarm/testctl/pkg/logging"
)

const tracerName = "github.com/giantswarm/testctl/internal/orchestrator"

// DefaultStepTimeout bounds a step that carries no timeout parameter.
const DefaultStepTimeout = 5 * time.Minute

// Config holds the configuration for the orchestrator.
type Config struct {
	Catalog *catalog.Catalog

	// Actions and TestTypes override or extend the default registration
	// maps built by executor.DefaultActions and executor.DefaultTestTypes.
	Actions   map[api.ActionType]executor.Executor
	TestTypes map[api.TestType]executor.Executor

	// Executors and Health configure the default executors.
	Executors executor.Options
	Health    executor.HealthConfig

	StepTimeout    time.Duration
	MaxConcurrency int     // parallel worker limit, 0 = unbounded
	DispatchRate   float64 // parallel step starts per second, 0 = unlimited
	HistorySize    int

	Storage       ExecutionStorage // Optional: defaults to a MemoryStorage of HistorySize
	EventCallback EventCallback
	Tracer        trace.Tracer
}

// Orchestrator drives execution plans and single actions through the
// registered executors.
type Orchestrator struct {
	mu        sync.RWMutex
	actions   map[api.ActionType]executor.Executor
	testTypes map[api.TestType]executor.Executor

	tracker        *ExecutionTracker
	events         EventCallback
	tracer         trace.Tracer
	limiter        *rate.Limiter
	stepTimeout    time.Duration
	maxConcurrency int
}

// New creates a new orchestrator.
func New(cfg Config) *Orchestrator {
	storage := cfg.Storage
	if storage == nil {
		storage = NewMemoryStorage(cfg.HistorySize)
	}

	o := &Orchestrator{
		tracker:        NewExecutionTracker(storage),
		events:         cfg.EventCallback,
		tracer:         cfg.Tracer,
		limiter:        rate.NewLimiter(rate.Inf, 0),
		stepTimeout:    cfg.StepTimeout,
		maxConcurrency: cfg.MaxConcurrency,
	}
	if o.events == nil {
		o.events = &NoOpEventCallback{}
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	if o.stepTimeout <= 0 {
		o.stepTimeout = DefaultStepTimeout
	}
	if cfg.DispatchRate > 0 {
		o.limiter = rate.NewLimiter(rate.Limit(cfg.DispatchRate), 1)
	}

	o.actions = executor.DefaultActions(executor.Deps{
		Catalog: cfg.Catalog,
		Options: cfg.Executors,
		Health:  cfg.Health,
		History: o,
	})
	for action, e := range cfg.Actions {
		o.actions[action] = e
	}
	o.testTypes = executor.DefaultTestTypes(cfg.Executors)
	for tt, e := range cfg.TestTypes {
		o.testTypes[tt] = e
	}

	return o
}

// RegisterAction installs e as the executor for action, replacing any
// previous registration.
func (o *Orchestrator) RegisterAction(action api.ActionType, e executor.Executor) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.actions[action] = e
	logging.Debug("Orchestrator", "Registered executor for action %s", action)
}

// RegisterTestType installs e as the RUN_TESTS executor for testType.
func (o *Orchestrator) RegisterTestType(testType api.TestType, e executor.Executor) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.testTypes[testType] = e
	logging.Debug("Orchestrator", "Registered executor for test type %s", testType)
}

// ExecuteActions runs every step of cc's execution plan and returns the
// aggregated result. It blocks until the plan finished, halted or was
// cancelled.
func (o *Orchestrator) ExecuteActions(ctx context.Context, cc api.ComprehensiveContext) api.ExecutionResult {
	te := o.tracker.begin(ctx, commandOf(cc), cc.ExecutionPlan.ExecutionStrategy)
	return o.runPlan(te, cc)
}

// StartActions is the asynchronous form of ExecuteActions. It returns the
// execution ID at once and delivers the result on the channel. The execution
// is cancelled when ctx is done or CancelExecution is called with the ID.
func (o *Orchestrator) StartActions(ctx context.Context, cc api.ComprehensiveContext) (string, <-chan api.ExecutionResult) {
	te := o.tracker.begin(ctx, commandOf(cc), cc.ExecutionPlan.ExecutionStrategy)
	done := make(chan api.ExecutionResult, 1)
	go func() {
		defer close(done)
		done <- o.runPlan(te, cc)
	}()
	return te.ID(), done
}

// ExecuteAction dispatches a single action. testType selects the executor
// for RUN_TESTS and is passed to every executor as the "testType" parameter.
func (o *Orchestrator) ExecuteAction(ctx context.Context, action api.ActionType, service string, testType api.TestType, params map[string]interface{}) api.ExecutionResult {
	logging.Info("Orchestrator", "Executing action: %s for service: %s with test type: %s", action, service, testType)

	te := o.tracker.begin(ctx, fmt.Sprintf("%s %s", action, service), "")
	step := api.ExecutionStep{
		StepID:      fmt.Sprintf("%s_%s_%s", action, service, testType),
		Name:        string(action),
		ActionType:  action,
		ServiceName: service,
		TestType:    testType,
		Parameters:  params,
	}

	result, outcome := o.executeStep(te.ctx, te.ID(), step)
	o.tracker.finish(te, []api.StepOutcome{outcome}, result)
	return result
}

// ActiveExecutions returns a snapshot of the running executions keyed by ID.
func (o *Orchestrator) ActiveExecutions() map[string]api.ExecutionRecord {
	return o.tracker.Active()
}

// CancelExecution cancels a running execution. It reports whether the
// execution was still registered as active.
func (o *Orchestrator) CancelExecution(executionID string) bool {
	return o.tracker.Cancel(executionID)
}

// GetExecution returns a running or finished execution.
func (o *Orchestrator) GetExecution(ctx context.Context, executionID string) (api.ExecutionRecord, error) {
	return o.tracker.Get(ctx, executionID)
}

// History returns the finished executions, newest first.
func (o *Orchestrator) History() []api.ExecutionRecord {
	return o.tracker.History()
}

func (o *Orchestrator) resolve(action api.ActionType, testType api.TestType) (executor.Executor, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if action == api.ActionRunTests {
		if e, ok := o.testTypes[testType]; ok {
			return e, nil
		}
		return nil, &api.UnsupportedTestTypeError{TestType: testType}
	}
	if e, ok := o.actions[action]; ok {
		return e, nil
	}
	return nil, &api.UnknownActionError{Action: action}
}

// dispatch never panics; executor panics become failed results.
func (o *Orchestrator) dispatch(ctx context.Context, step api.ExecutionStep) (result api.ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			logging.Error("Orchestrator", err, "Error executing action %s", step.ActionType)
			result = api.NewFailureResult("Action execution failed: " + err.Error())
		}
	}()

	e, err := o.resolve(step.ActionType, step.TestType)
	if err != nil {
		logging.Warn("Orchestrator", "Cannot dispatch step %s: %v", step.StepID, err)
		return api.NewFailureResult(err.Error())
	}

	params := step.Parameters
	if step.TestType != "" {
		params = template.MergeContexts(step.Parameters, map[string]interface{}{"testType": string(step.TestType)})
	}
	return e.Execute(ctx, step.ServiceName, params)
}

func commandOf(cc api.ComprehensiveContext) string {
	if cc.ParsedCommand.OriginalCommand != "" {
		return cc.ParsedCommand.OriginalCommand
	}
	return cc.Command
}
