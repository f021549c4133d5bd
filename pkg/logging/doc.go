// Package logging provides the structured logging used across testctl.
//
// The package wraps Go's standard slog package behind a small, subsystem
// oriented API so every component logs the same way.
//
// # Log Levels
//   - **Debug**: Detailed information for debugging and development
//   - **Info**: General informational messages about application operation
//   - **Warn**: Warning messages that indicate potential issues
//   - **Error**: Error messages for failures and exceptional conditions
//
// Every record carries a "subsystem" attribute, and records logged through
// Error also carry an "error" attribute.
//
// # Usage Examples
//
//	import "github.com/giantswarm/testctl/pkg/logging"
//
//	// Text output to stderr at warn level (the CLI default)
//	logging.InitForCLI(logging.LevelWarn, os.Stderr)
//
//	// JSON output for log shippers
//	logging.Init(logging.Options{Level: logging.LevelInfo, Format: logging.FormatJSON})
//
//	logging.Info("Orchestrator", "Executing %d steps", len(plan.Steps))
//	logging.Error("HealthProbe", err, "Probe of %s failed", service)
//
// Calls made before Init are dropped.
//
// # Subsystems
//
//   - **Bootstrap**: Application initialization and wiring
//   - **ConfigLoader**: Configuration loading and validation
//   - **Catalog**: Registry table loading
//   - **Parser**: Keyword command parsing
//   - **ContextAnalyzer**: Command analysis and plan construction
//   - **DependencyAnalyzer**: Blast radius and risk analysis
//   - **Orchestrator**: Plan execution and dispatch
//   - **ExecutionTracker**: Active execution and history bookkeeping
//   - **Executor**: Type-specific executors
//   - **HealthProbe**: HTTP health checks
//   - **Shell**: Interactive shell
package logging
