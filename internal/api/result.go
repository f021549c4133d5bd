package api

import "time"

// ExecutionResult is returned by every executor call and by the orchestrator's
// aggregate calls. It is never mutated after creation.
type ExecutionResult struct {
	Success   bool                   `json:"success" yaml:"success"`
	Message   string                 `json:"message" yaml:"message"`
	Data      map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp" yaml:"timestamp"`
}

// NewSuccessResult builds a successful result stamped with the current time.
func NewSuccessResult(message string, data map[string]interface{}) ExecutionResult {
	return ExecutionResult{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewFailureResult builds a failed result stamped with the current time.
func NewFailureResult(message string) ExecutionResult {
	return ExecutionResult{
		Success:   false,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// StepOutcome records how a single plan step ended.
type StepOutcome struct {
	StepID      string     `json:"stepId" yaml:"stepId"`
	Name        string     `json:"name" yaml:"name"`
	ActionType  ActionType `json:"actionType" yaml:"actionType"`
	ServiceName string     `json:"serviceName" yaml:"serviceName"`
	TestType    TestType   `json:"testType,omitempty" yaml:"testType,omitempty"`
	Status      StepStatus `json:"status" yaml:"status"`
	Success     bool       `json:"success" yaml:"success"`
	Message     string     `json:"message,omitempty" yaml:"message,omitempty"`
	StartedAt   time.Time  `json:"startedAt,omitempty" yaml:"startedAt,omitempty"`
	DurationMs  int64      `json:"durationMs" yaml:"durationMs"`
}

// ExecutionRecord tracks one execution request from start to finish.
type ExecutionRecord struct {
	ExecutionID string            `json:"executionId" yaml:"executionId"`
	Command     string            `json:"command,omitempty" yaml:"command,omitempty"`
	Strategy    ExecutionStrategy `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Status      StepStatus        `json:"status" yaml:"status"`
	StartedAt   time.Time         `json:"startedAt" yaml:"startedAt"`
	CompletedAt *time.Time        `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	DurationMs  int64             `json:"durationMs" yaml:"durationMs"`
	Steps       []StepOutcome     `json:"steps,omitempty" yaml:"steps,omitempty"`
	Result      *ExecutionResult  `json:"result,omitempty" yaml:"result,omitempty"`
}

// TestFailure is a failed step surfaced by failure analysis.
type TestFailure struct {
	ExecutionID string     `json:"executionId" yaml:"executionId"`
	StepID      string     `json:"stepId" yaml:"stepId"`
	ServiceName string     `json:"serviceName" yaml:"serviceName"`
	TestType    TestType   `json:"testType,omitempty" yaml:"testType,omitempty"`
	ActionType  ActionType `json:"actionType" yaml:"actionType"`
	Message     string     `json:"message" yaml:"message"`
	FailedAt    time.Time  `json:"failedAt" yaml:"failedAt"`
}
