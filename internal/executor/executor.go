package executor

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/giantswarm/testctl/internal/api"
)

// Executor runs one action against one service.
//
// Implementations must return promptly once ctx is done. Failures are reported
// through the returned result, never by panicking or by a separate error.
type Executor interface {
	Execute(ctx context.Context, service string, params map[string]interface{}) api.ExecutionResult
}

// Func adapts an ordinary function to the Executor interface.
type Func func(ctx context.Context, service string, params map[string]interface{}) api.ExecutionResult

// Execute calls f.
func (f Func) Execute(ctx context.Context, service string, params map[string]interface{}) api.ExecutionResult {
	return f(ctx, service, params)
}

// SimulateFailureParam makes any simulated executor return a failed result.
const SimulateFailureParam = "simulateFailure"

// Options tune the simulated executors.
type Options struct {
	// DelayScale multiplies every simulated delay. Zero makes simulations
	// return immediately.
	DelayScale float64
}

// wait blocks for the scaled delay or until ctx is done.
func (o Options) wait(ctx context.Context, d time.Duration) error {
	scaled := time.Duration(float64(d) * o.DelayScale)
	if scaled <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(scaled)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// simulation describes a canned run: how long it takes and what it reports.
type simulation struct {
	delay   time.Duration
	success string
	failure string
	data    map[string]interface{}
}

func (o Options) run(ctx context.Context, params map[string]interface{}, s simulation) api.ExecutionResult {
	if boolParam(params, SimulateFailureParam, false) {
		return api.NewFailureResult(s.failure + ": simulated failure")
	}
	if err := o.wait(ctx, s.delay); err != nil {
		return api.NewFailureResult(fmt.Sprintf("%s: %v", s.failure, err))
	}
	return api.NewSuccessResult(s.success, s.data)
}

// Parameters reach executors from the parser, from CLI flags (always strings)
// and from code, so the helpers below accept several representations.

func stringParam(params map[string]interface{}, key, def string) string {
	switch v := params[key].(type) {
	case string:
		if v != "" {
			return v
		}
	case fmt.Stringer:
		return v.String()
	case nil:
	default:
		return fmt.Sprint(v)
	}
	return def
}

func intParam(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func boolParam(params map[string]interface{}, key string, def bool) bool {
	switch v := params[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// StepTimeout reads the "timeout" parameter. It accepts Go duration strings
// ("300s", "10m") and plain seconds. ok is false when the parameter is absent
// or unusable.
func StepTimeout(params map[string]interface{}) (d time.Duration, ok bool) {
	switch v := params["timeout"].(type) {
	case string:
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed, true
		}
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second, true
		}
	case int:
		if v > 0 {
			return time.Duration(v) * time.Second, true
		}
	case float64:
		if v > 0 {
			return time.Duration(v * float64(time.Second)), true
		}
	case time.Duration:
		if v > 0 {
			return v, true
		}
	}
	return 0, false
}
