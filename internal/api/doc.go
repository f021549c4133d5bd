// Package api holds the data types shared by every testctl component.
//
// The analysis side produces a ComprehensiveContext (resolved test types,
// services and actions, a DependencyGraph, an ExecutionPlan, a RiskAssessment
// and resource/duration estimates). The execution side consumes that context
// and produces ExecutionResult values, one per step plus one aggregate.
//
// The package has no dependencies on other internal packages so that the
// catalog, analyzers, executors and orchestrator can all import it without
// cycles.
//
// # Risk ordering
//
// RiskLevel values are ordered LOW < MEDIUM < HIGH < CRITICAL. Use MaxRisk to
// combine levels; an overall level is always the maximum of its contributors.
//
// # Errors
//
// Typed errors (NotFoundError, UnknownActionError, UnsupportedTestTypeError)
// are matched with errors.As through the Is* helpers. They are converted to
// failed ExecutionResult values at component boundaries and never cross the
// analyzer or orchestrator public API as Go errors.
package api
