package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/giantswarm/testctl/internal/api"
)

// ParseParams turns key=value arguments into executor parameters. Integers,
// floats and booleans are converted; everything else stays a string.
func ParseParams(args []string) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", arg)
		}
		params[key] = parseValue(value)
	}
	return params, nil
}

func parseValue(s string) interface{} {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// normalizeName maps user spellings like "run-tests" to registry keys like RUN_TESTS.
func normalizeName(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
}

// ActionType normalizes a user supplied action name.
func ActionType(s string) api.ActionType {
	return api.ActionType(normalizeName(s))
}

// TestType normalizes a user supplied test type. A bare name such as "chaos"
// resolves to CHAOS_TEST.
func TestType(s string) api.TestType {
	if s == "" {
		return ""
	}
	tt := api.TestType(normalizeName(s))
	if !tt.Known() && !strings.HasSuffix(string(tt), "_TEST") {
		if withSuffix := api.TestType(string(tt) + "_TEST"); withSuffix.Known() {
			return withSuffix
		}
	}
	return tt
}

// ExecuteAction runs a single action against a service.
func (a *Application) ExecuteAction(ctx context.Context, action, service, testType string, params map[string]interface{}) api.ExecutionResult {
	return a.services.Orchestrator.ExecuteAction(ctx, ActionType(action), service, TestType(testType), params)
}
