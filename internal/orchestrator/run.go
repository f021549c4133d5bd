package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/executor"
	"github.com/giantswarm/testctl/pkg/logging"
)

// stepRun pairs a step's result with its recorded outcome.
type stepRun struct {
	result  api.ExecutionResult
	outcome api.StepOutcome
}

func (r stepRun) attempted() bool {
	return r.outcome.Status == api.StatusCompleted || r.outcome.Status == api.StatusFailed
}

func (o *Orchestrator) runPlan(te *trackedExecution, cc api.ComprehensiveContext) api.ExecutionResult {
	var runs []stepRun
	result := o.executePlan(te, cc, &runs)

	outcomes := make([]api.StepOutcome, len(runs))
	for i, r := range runs {
		outcomes[i] = r.outcome
	}
	o.tracker.finish(te, outcomes, result)
	return result
}

func (o *Orchestrator) executePlan(te *trackedExecution, cc api.ComprehensiveContext, runs *[]stepRun) (result api.ExecutionResult) {
	start := time.Now()
	plan := cc.ExecutionPlan
	logging.Info("Orchestrator", "Executing actions for command: %s", commandOf(cc))

	ctx, span := o.tracer.Start(te.ctx, "ExecuteActions", trace.WithAttributes(
		attribute.String("execution.id", te.ID()),
		attribute.String("execution.strategy", string(plan.ExecutionStrategy)),
		attribute.Int("execution.steps", len(plan.Steps)),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			logging.Error("Orchestrator", err, "Error executing actions")
			span.RecordError(err)
			result = api.NewFailureResult("Execution failed: " + err.Error())
		}
	}()

	if plan.ExecutionStrategy == api.StrategyParallel {
		*runs = o.runParallel(ctx, te.ID(), plan.Steps)
	} else {
		*runs = o.runSequential(ctx, te.ID(), plan.Steps)
	}

	result = summarize(te.ID(), cc, *runs, time.Since(start))
	if !result.Success {
		span.SetStatus(codes.Error, result.Message)
	}
	return result
}

// runSequential runs steps in plan order. A failed critical step halts the
// plan and the remaining steps are SKIPPED; once ctx is done the remaining
// steps are CANCELLED.
func (o *Orchestrator) runSequential(ctx context.Context, executionID string, steps []api.ExecutionStep) []stepRun {
	runs := make([]stepRun, 0, len(steps))
	for i, step := range steps {
		if ctx.Err() != nil {
			return append(runs, notAttempted(steps[i:], api.StatusCancelled)...)
		}

		logging.Info("Orchestrator", "Executing step: %s", step.Name)
		result, outcome := o.executeStep(ctx, executionID, step)
		runs = append(runs, stepRun{result: result, outcome: outcome})

		if !result.Success && step.Critical() {
			rest := steps[i+1:]
			logging.Error("Orchestrator", errors.New(result.Message), "Critical step failed: %s", step.Name)
			o.events.GenerateStepEvent(executionID, step.StepID, EventExecutionHalted, map[string]interface{}{
				"message": result.Message,
				"skipped": len(rest),
			})
			return append(runs, notAttempted(rest, api.StatusSkipped)...)
		}
	}
	return runs
}

// runParallel starts every step, bounded by the worker limit and the dispatch
// rate, and returns once all of them finished. Results keep plan order.
func (o *Orchestrator) runParallel(ctx context.Context, executionID string, steps []api.ExecutionStep) []stepRun {
	runs := make([]stepRun, len(steps))

	var g errgroup.Group
	if o.maxConcurrency > 0 {
		g.SetLimit(o.maxConcurrency)
	}
	for i, step := range steps {
		g.Go(func() error {
			if err := o.limiter.Wait(ctx); err != nil {
				runs[i] = notAttempted(steps[i:i+1], api.StatusCancelled)[0]
				return nil
			}
			logging.Info("Orchestrator", "Starting parallel execution of step: %s", step.Name)
			result, outcome := o.executeStep(ctx, executionID, step)
			runs[i] = stepRun{result: result, outcome: outcome}
			return nil
		})
	}
	_ = g.Wait()
	return runs
}

// executeStep runs one step under its deadline and records the outcome.
func (o *Orchestrator) executeStep(ctx context.Context, executionID string, step api.ExecutionStep) (api.ExecutionResult, api.StepOutcome) {
	ctx, span := o.tracer.Start(ctx, "step "+step.StepID, trace.WithAttributes(
		attribute.String("step.action", string(step.ActionType)),
		attribute.String("step.service", step.ServiceName),
		attribute.String("step.test_type", string(step.TestType)),
	))
	defer span.End()

	o.events.GenerateStepEvent(executionID, step.StepID, EventStepStarted, map[string]interface{}{
		"actionType":  string(step.ActionType),
		"serviceName": step.ServiceName,
		"testType":    string(step.TestType),
	})

	start := time.Now()
	result := o.runWithDeadline(ctx, step)
	elapsed := time.Since(start)

	outcome := api.StepOutcome{
		StepID:      step.StepID,
		Name:        step.Name,
		ActionType:  step.ActionType,
		ServiceName: step.ServiceName,
		TestType:    step.TestType,
		Status:      api.StatusCompleted,
		Success:     result.Success,
		Message:     result.Message,
		StartedAt:   start,
		DurationMs:  elapsed.Milliseconds(),
	}

	eventType := EventStepCompleted
	if !result.Success {
		outcome.Status = api.StatusFailed
		eventType = EventStepFailed
		span.SetStatus(codes.Error, result.Message)
	}
	o.events.GenerateStepEvent(executionID, step.StepID, eventType, map[string]interface{}{
		"message":    result.Message,
		"durationMs": outcome.DurationMs,
	})
	return result, outcome
}

// runWithDeadline bounds the executor call by the step's timeout parameter or
// the configured default. The orchestrator stops waiting when the deadline
// passes even if the executor ignores its context.
func (o *Orchestrator) runWithDeadline(ctx context.Context, step api.ExecutionStep) api.ExecutionResult {
	timeout := o.stepTimeout
	if d, ok := executor.StepTimeout(step.Parameters); ok {
		timeout = d
	}

	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan api.ExecutionResult, 1)
	go func() {
		done <- o.dispatch(stepCtx, step)
	}()

	select {
	case result := <-done:
		return result
	case <-stepCtx.Done():
		if errors.Is(stepCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			logging.Warn("Orchestrator", "Step %s timed out after %s", step.StepID, timeout)
			return api.NewFailureResult(fmt.Sprintf("Step timed out after %s", timeout))
		}
		return api.NewFailureResult("Execution cancelled")
	}
}

func notAttempted(steps []api.ExecutionStep, status api.StepStatus) []stepRun {
	runs := make([]stepRun, len(steps))
	for i, step := range steps {
		runs[i] = stepRun{outcome: api.StepOutcome{
			StepID:      step.StepID,
			Name:        step.Name,
			ActionType:  step.ActionType,
			ServiceName: step.ServiceName,
			TestType:    step.TestType,
			Status:      status,
		}}
	}
	return runs
}

// summarize aggregates attempted steps. SKIPPED and CANCELLED steps are
// reported but do not count towards totalSteps.
func summarize(executionID string, cc api.ComprehensiveContext, runs []stepRun, elapsed time.Duration) api.ExecutionResult {
	var total, succeeded, skipped, cancelled int
	outcomes := make([]api.StepOutcome, 0, len(runs))
	for _, r := range runs {
		outcomes = append(outcomes, r.outcome)
		switch {
		case r.attempted():
			total++
			if r.result.Success {
				succeeded++
			}
		case r.outcome.Status == api.StatusSkipped:
			skipped++
		default:
			cancelled++
		}
	}

	successRate := 0.0
	if total > 0 {
		successRate = float64(succeeded) / float64(total)
	}

	summary := map[string]interface{}{
		"executionId":       executionID,
		"totalSteps":        total,
		"successfulSteps":   succeeded,
		"failedSteps":       total - succeeded,
		"skippedSteps":      skipped,
		"cancelledSteps":    cancelled,
		"successRate":       successRate,
		"originalCommand":   commandOf(cc),
		"executionStrategy": string(cc.ExecutionPlan.ExecutionStrategy),
		"estimatedDuration": cc.EstimatedDuration,
		"actualDuration":    elapsed.Round(time.Millisecond).String(),
		"steps":             outcomes,
	}

	message := fmt.Sprintf("Execution completed: %d/%d steps successful", succeeded, total)
	if succeeded == total && cancelled == 0 {
		return api.NewSuccessResult(message, summary)
	}
	result := api.NewFailureResult(message)
	result.Data = summary
	return result
}
