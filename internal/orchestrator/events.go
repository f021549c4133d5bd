package orchestrator

// Step event types passed to EventCallback.GenerateStepEvent.
const (
	EventStepStarted     = "step_started"
	EventStepCompleted   = "step_completed"
	EventStepFailed      = "step_failed"
	EventExecutionHalted = "execution_halted"
)

// EventCallback receives step lifecycle events. Steps of a parallel plan
// report concurrently, so implementations must be safe for concurrent use.
type EventCallback interface {
	// GenerateStepEvent generates an event for a plan step
	GenerateStepEvent(executionID string, stepID string, eventType string, data map[string]interface{})
}

// NoOpEventCallback provides a no-operation implementation of EventCallback
type NoOpEventCallback struct{}

func (n *NoOpEventCallback) GenerateStepEvent(executionID string, stepID string, eventType string, data map[string]interface{}) {
	// No operation - events are disabled
}
