package config

import "time"

const (
	// DefaultLogLevel keeps command output free of progress logs.
	DefaultLogLevel = "warn"

	// DefaultHealthPath is the health endpoint of the catalog services
	DefaultHealthPath = "/actuator/health"
)

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() TestctlConfig {
	return TestctlConfig{
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: "text",
		},
		Orchestrator: OrchestratorConfig{
			StepTimeout: 5 * time.Minute,
			HistorySize: 100,
		},
		Executors: ExecutorsConfig{
			DelayScale: 0.1,
		},
		Health: HealthConfig{
			BaseURL: "http://localhost",
			Path:    DefaultHealthPath,
			Timeout: 2 * time.Second,
		},
	}
}
