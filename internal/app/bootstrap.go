package app

import (
	"context"
	"fmt"
	"os"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/config"
	"github.com/giantswarm/testctl/pkg/logging"
)

// Application wires configuration, logging and services for one CLI
// invocation or shell session.
//
// Example usage:
//
//	application, err := app.NewApplication(app.NewConfig(false, ""))
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	defer application.Shutdown(ctx)
//	_, result := application.Run(ctx, "run chaos tests on order-service")
type Application struct {
	config   *Config
	services *Services
}

// NewApplication performs the bootstrap sequence:
//
//  1. Loads testctl configuration (unless cfg.TestctlConfig is already set)
//  2. Configures logging from the loaded level and format
//  3. Initializes the catalog, analyzer, orchestrator and optional tracing
func NewApplication(cfg *Config) (*Application, error) {
	if cfg.LogOutput == nil {
		cfg.LogOutput = os.Stderr
	}

	if cfg.TestctlConfig == nil {
		configPath := cfg.ConfigPath
		if configPath == "" {
			configPath = config.GetDefaultConfigPathOrPanic()
		}
		testctlCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load testctl configuration from path %s: %w", configPath, err)
		}
		cfg.TestctlConfig = &testctlCfg
	}

	if err := initLogging(cfg); err != nil {
		return nil, err
	}
	logging.Debug("Bootstrap", "Configuration loaded (path %q)", cfg.ConfigPath)

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

func initLogging(cfg *Config) error {
	level, err := logging.ParseLevel(cfg.TestctlConfig.Logging.Level)
	if err != nil {
		return err
	}
	if cfg.Debug {
		level = logging.LevelDebug
	}

	format := logging.FormatText
	if cfg.TestctlConfig.Logging.Format == string(logging.FormatJSON) {
		format = logging.FormatJSON
	}

	logging.Init(logging.Options{Level: level, Format: format, Output: cfg.LogOutput})
	return nil
}

// Services returns the initialized components.
func (a *Application) Services() *Services {
	return a.services
}

// Settings returns the loaded configuration.
func (a *Application) Settings() config.TestctlConfig {
	return *a.config.TestctlConfig
}

// Analyze builds the execution context for a command without running it.
func (a *Application) Analyze(ctx context.Context, command string) api.ComprehensiveContext {
	return a.services.Analyzer.AnalyzeCommand(ctx, command)
}

// Run analyzes a command and executes the resulting plan.
func (a *Application) Run(ctx context.Context, command string) (api.ComprehensiveContext, api.ExecutionResult) {
	cc := a.Analyze(ctx, command)
	if len(cc.ExecutionPlan.Steps) == 0 {
		logging.Warn("Bootstrap", "Command %q produced no executable steps", command)
	}
	return cc, a.services.Orchestrator.ExecuteActions(ctx, cc)
}

// Shutdown releases resources held by the services.
func (a *Application) Shutdown(ctx context.Context) error {
	return a.services.Shutdown(ctx)
}
