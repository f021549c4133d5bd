package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/giantswarm/testctl/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Validate checks the configuration for values the components cannot use.
// It returns ValidationErrors listing every problem, or nil.
func (c TestctlConfig) Validate() error {
	var errs ValidationErrors

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs.Add("logging.level", "must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "" {
		if err := ValidateOneOf("logging.format", c.Logging.Format, []string{"text", "json"}); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	}

	if c.Orchestrator.StepTimeout < 0 {
		errs.Add("orchestrator.stepTimeout", "must not be negative", c.Orchestrator.StepTimeout)
	}
	if c.Orchestrator.MaxConcurrency < 0 {
		errs.Add("orchestrator.maxConcurrency", "must not be negative", c.Orchestrator.MaxConcurrency)
	}
	if c.Orchestrator.DispatchRate < 0 {
		errs.Add("orchestrator.dispatchRate", "must not be negative", c.Orchestrator.DispatchRate)
	}
	if c.Orchestrator.HistorySize < 0 {
		errs.Add("orchestrator.historySize", "must not be negative", c.Orchestrator.HistorySize)
	}

	if c.Executors.DelayScale < 0 {
		errs.Add("executors.delayScale", "must not be negative", c.Executors.DelayScale)
	}

	if c.Health.Timeout < 0 {
		errs.Add("health.timeout", "must not be negative", c.Health.Timeout)
	}
	if c.Health.BaseURL != "" {
		if u, err := url.Parse(c.Health.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs.Add("health.baseURL", "must be an absolute URL such as http://localhost", c.Health.BaseURL)
		}
	}
	if c.Health.Path != "" && !strings.HasPrefix(c.Health.Path, "/") {
		errs.Add("health.path", "must start with '/'", c.Health.Path)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
