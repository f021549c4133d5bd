// Package app bootstraps testctl.
//
// NewApplication loads the configuration from the config directory
// (config.yaml, falling back to config.toml), initializes logging, and builds
// the shared services:
//
//   - the registry tables (embedded defaults or catalog.path)
//   - the context analyzer
//   - the execution orchestrator with its executors
//   - an optional stdout span exporter when tracing.enabled is set
//
// Commands and the interactive shell use the Application to analyze and run
// natural-language test commands:
//
//	application, err := app.NewApplication(app.NewConfig(debug, configPath))
//	if err != nil {
//	    return err
//	}
//	defer application.Shutdown(ctx)
//
//	cc, result := application.Run(ctx, "run chaos tests on order-service")
package app
