package app

import (
	"io"

	"github.com/giantswarm/testctl/internal/config"
	"github.com/giantswarm/testctl/internal/orchestrator"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of the configured level.
	Debug bool

	// Custom configuration path (optional)
	// When empty, ~/.config/testctl is used.
	ConfigPath string

	// LogOutput receives log lines and, when tracing is enabled, span dumps.
	// Defaults to os.Stderr.
	LogOutput io.Writer

	// Events observes step progress. Optional.
	Events orchestrator.EventCallback

	// Loaded configuration. When set, NewApplication skips loading from disk.
	TestctlConfig *config.TestctlConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
	}
}
