package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/pkg/logging"
)

// trackedExecution is the handle for one running execution request.
type trackedExecution struct {
	ctx    context.Context
	cancel context.CancelFunc
	record api.ExecutionRecord
}

// ID returns the execution ID.
func (te *trackedExecution) ID() string {
	return te.record.ExecutionID
}

// ExecutionTracker keeps the registry of running executions and hands
// finished ones to an ExecutionStorage.
//
// Every execution runs under its own cancellable context. Cancel removes the
// registry entry and cancels that context, which every executor observes.
type ExecutionTracker struct {
	storage ExecutionStorage

	mu     sync.RWMutex
	active map[string]*trackedExecution
}

// NewExecutionTracker creates a new execution tracker with the specified storage.
func NewExecutionTracker(storage ExecutionStorage) *ExecutionTracker {
	if storage == nil {
		storage = NewMemoryStorage(DefaultHistorySize)
	}
	return &ExecutionTracker{
		storage: storage,
		active:  make(map[string]*trackedExecution),
	}
}

// begin registers a new RUNNING execution derived from parent.
func (et *ExecutionTracker) begin(parent context.Context, command string, strategy api.ExecutionStrategy) *trackedExecution {
	ctx, cancel := context.WithCancel(parent)
	te := &trackedExecution{
		ctx:    ctx,
		cancel: cancel,
		record: api.ExecutionRecord{
			ExecutionID: uuid.New().String(),
			Command:     command,
			Strategy:    strategy,
			Status:      api.StatusRunning,
			StartedAt:   time.Now(),
		},
	}

	et.mu.Lock()
	et.active[te.ID()] = te
	et.mu.Unlock()

	logging.Debug("ExecutionTracker", "Started execution %s (%s)", te.ID(), command)
	return te
}

// finish removes the execution from the registry, stamps its final state and
// stores it. An execution whose context was cancelled ends CANCELLED
// regardless of the result.
func (et *ExecutionTracker) finish(te *trackedExecution, steps []api.StepOutcome, result api.ExecutionResult) api.ExecutionRecord {
	cancelled := errors.Is(te.ctx.Err(), context.Canceled)
	te.cancel()

	et.mu.Lock()
	delete(et.active, te.ID())
	et.mu.Unlock()

	end := time.Now()
	record := te.record
	record.CompletedAt = &end
	record.DurationMs = end.Sub(record.StartedAt).Milliseconds()
	record.Steps = steps
	record.Result = &result
	switch {
	case cancelled:
		record.Status = api.StatusCancelled
	case result.Success:
		record.Status = api.StatusCompleted
	default:
		record.Status = api.StatusFailed
	}

	if err := et.storage.Store(context.Background(), record); err != nil {
		logging.Warn("ExecutionTracker", "Failed to store execution record %s: %v", record.ExecutionID, err)
	}

	logging.Debug("ExecutionTracker", "Completed execution %s (status: %s, duration: %dms)",
		record.ExecutionID, record.Status, record.DurationMs)
	return record
}

// Cancel cancels a running execution and drops it from the registry. It
// reports whether the execution was still registered.
func (et *ExecutionTracker) Cancel(executionID string) bool {
	et.mu.Lock()
	te, ok := et.active[executionID]
	delete(et.active, executionID)
	et.mu.Unlock()

	if !ok {
		return false
	}
	te.cancel()
	logging.Info("ExecutionTracker", "Cancelled execution %s", executionID)
	return true
}

// Active returns a snapshot of the running executions keyed by ID.
func (et *ExecutionTracker) Active() map[string]api.ExecutionRecord {
	et.mu.RLock()
	defer et.mu.RUnlock()

	out := make(map[string]api.ExecutionRecord, len(et.active))
	for id, te := range et.active {
		out[id] = te.record
	}
	return out
}

// Get looks an execution up in the registry first and in storage second.
func (et *ExecutionTracker) Get(ctx context.Context, executionID string) (api.ExecutionRecord, error) {
	et.mu.RLock()
	te, ok := et.active[executionID]
	et.mu.RUnlock()
	if ok {
		return te.record, nil
	}
	return et.storage.Get(ctx, executionID)
}

// History returns the finished executions, newest first.
func (et *ExecutionTracker) History() []api.ExecutionRecord {
	records, err := et.storage.List(context.Background())
	if err != nil {
		logging.Warn("ExecutionTracker", "Failed to list execution history: %v", err)
		return nil
	}
	return records
}
