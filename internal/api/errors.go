package api

import (
	"errors"
	"fmt"
)

// NotFoundError represents a resource not found error with contextual information.
// It is used for lookups in the registry tables, for example when a health
// check targets a service the catalog does not know.
type NotFoundError struct {
	// ResourceType categorizes the type of resource that was not found
	// (e.g., "service", "test type", "execution")
	ResourceType string

	// ResourceName is the specific identifier of the resource that was not found
	ResourceName string

	// Message provides a custom error message if the default format is insufficient
	Message string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found: %s", capitalize(e.ResourceType), e.ResourceName)
}

// IsNotFound checks if an error is a NotFoundError using error unwrapping.
//
// Example:
//
//	if _, err := cat.Service("billing-service"); api.IsNotFound(err) {
//	    return api.NewFailureResult(err.Error())
//	}
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a new NotFoundError with the specified resource type and name.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

// NewServiceNotFoundError creates a service not found error.
// Its message reads "Service not found: <name>".
func NewServiceNotFoundError(name string) *NotFoundError {
	return NewNotFoundError("service", name)
}

// UnknownActionError is returned when no executor is registered for an action.
type UnknownActionError struct {
	Action ActionType
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("Unknown action type: %s", e.Action)
}

// IsUnknownAction reports whether err is or wraps an UnknownActionError.
func IsUnknownAction(err error) bool {
	var target *UnknownActionError
	return errors.As(err, &target)
}

// UnsupportedTestTypeError is returned when RUN_TESTS has no executor for a test type.
type UnsupportedTestTypeError struct {
	TestType TestType
}

func (e *UnsupportedTestTypeError) Error() string {
	return fmt.Sprintf("Unsupported test type: %s", e.TestType)
}

// IsUnsupportedTestType reports whether err is or wraps an UnsupportedTestTypeError.
func IsUnsupportedTestType(err error) bool {
	var target *UnsupportedTestTypeError
	return errors.As(err, &target)
}

// ErrExecutionCancelled is reported when an execution is cancelled before it finished.
var ErrExecutionCancelled = errors.New("execution cancelled")

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
