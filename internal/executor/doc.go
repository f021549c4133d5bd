// Package executor contains the type-specific executors the orchestrator
// dispatches to.
//
// Every executor implements
//
//	Execute(ctx context.Context, service string, params map[string]interface{}) api.ExecutionResult
//
// and reports failures through the result rather than an error. The
// simulated executors (test runner, chaos, performance, security) sleep for a
// canned duration scaled by Options.DelayScale and return canned metrics. They
// stop early when ctx is done, and any of them fails on demand when the
// "simulateFailure" parameter is true.
//
// Health probes the services' HTTP health endpoints. FailureAnalyzer and
// Reporter read the orchestrator's execution history through HistorySource.
//
// DefaultActions and DefaultTestTypes build the registration maps the
// orchestrator starts from.
package executor
