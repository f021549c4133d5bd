package config

import "time"

// TestctlConfig is the top-level configuration structure for testctl.
type TestctlConfig struct {
	Logging      LoggingConfig      `yaml:"logging" toml:"logging"`
	Catalog      CatalogConfig      `yaml:"catalog" toml:"catalog"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator" toml:"orchestrator"`
	Executors    ExecutorsConfig    `yaml:"executors" toml:"executors"`
	Health       HealthConfig       `yaml:"health" toml:"health"`
	Tracing      TracingConfig      `yaml:"tracing" toml:"tracing"`
}

// LoggingConfig selects the log level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" toml:"level"`   // debug|info|warn|error (default: warn)
	Format string `yaml:"format,omitempty" toml:"format"` // text|json (default: text)
}

// CatalogConfig points at an optional replacement for the embedded registry tables.
type CatalogConfig struct {
	Path string `yaml:"path,omitempty" toml:"path"`
}

// OrchestratorConfig tunes plan execution.
type OrchestratorConfig struct {
	StepTimeout    time.Duration `yaml:"stepTimeout,omitempty" toml:"stepTimeout"`       // Deadline for steps without a timeout parameter (default: 5m)
	MaxConcurrency int           `yaml:"maxConcurrency,omitempty" toml:"maxConcurrency"` // Parallel worker limit, 0 = unbounded
	DispatchRate   float64       `yaml:"dispatchRate,omitempty" toml:"dispatchRate"`     // Parallel step starts per second, 0 = unlimited
	HistorySize    int           `yaml:"historySize,omitempty" toml:"historySize"`       // Finished executions kept in memory (default: 100)
}

// ExecutorsConfig tunes the simulated executors.
type ExecutorsConfig struct {
	DelayScale float64 `yaml:"delayScale" toml:"delayScale"` // Multiplier on simulated delays, 0 = instant (default: 0.1)
}

// HealthConfig configures the HTTP health probe.
type HealthConfig struct {
	BaseURL string        `yaml:"baseURL,omitempty" toml:"baseURL"`
	Path    string        `yaml:"path,omitempty" toml:"path"`
	Timeout time.Duration `yaml:"timeout,omitempty" toml:"timeout"`
}

// TracingConfig enables span output.
type TracingConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"` // Print spans to stderr
}
