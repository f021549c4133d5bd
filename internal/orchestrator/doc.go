// Package orchestrator executes analyzed commands.
//
// The orchestrator consumes an api.ComprehensiveContext and runs every step of
// its execution plan by dispatching to the executor registered for the step's
// action. RUN_TESTS steps are dispatched a second time on the step's test
// type. Executors live in registration maps that start from
// executor.DefaultActions and executor.DefaultTestTypes and can be extended
// with RegisterAction and RegisterTestType.
//
// # Strategies
//
// SEQUENTIAL plans run one step at a time in plan order. When a critical step
// fails (a HEALTH_CHECK or RUN_CHAOS_TESTS action, or any CHAOS_TEST step) the
// remaining steps are not attempted and are reported as SKIPPED. Results of
// the steps that already ran are kept.
//
// PARALLEL plans start every step at once, optionally bounded by
// Config.MaxConcurrency workers and Config.DispatchRate step starts per
// second, and aggregate only after all of them finished. Results are reported
// in plan order.
//
// # Deadlines and cancellation
//
// Each execution request runs under its own cancellable context, registered
// in the active-execution registry until it finishes. CancelExecution cancels
// that context and removes the entry; executors observe the cancellation and
// return early. Each step additionally runs under a deadline taken from its
// "timeout" parameter, or Config.StepTimeout. When the deadline passes the
// step fails with "Step timed out after <d>" without waiting for the executor.
//
// # Failure handling
//
// Nothing here returns an error or panics to the caller. Unknown actions,
// unsupported test types, executor failures and executor panics all surface
// as a failed api.ExecutionResult.
//
// # Tracking
//
// Finished executions move from the registry to an ExecutionStorage (a
// bounded MemoryStorage by default) as COMPLETED, FAILED or CANCELLED records.
// The orchestrator implements executor.HistorySource over that storage, which
// is what the ANALYZE_FAILURES and GENERATE_REPORT executors read.
//
// Step lifecycle events are reported to an optional EventCallback, and every
// execution and step is wrapped in an OpenTelemetry span.
//
// # Usage
//
//	orch := orchestrator.New(orchestrator.Config{
//	    Catalog:     cat,
//	    StepTimeout: 5 * time.Minute,
//	})
//
//	result := orch.ExecuteActions(ctx, analyzer.AnalyzeCommand(ctx, "run chaos tests on order-service"))
//	fmt.Println(result.Message)
package orchestrator
