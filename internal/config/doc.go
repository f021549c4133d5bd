// Package config provides configuration management for testctl.
//
// Configuration is loaded from a single directory. The default directory is
// ~/.config/testctl; commands accept --config-path to point elsewhere.
//
// # Configuration Files
//
// LoadConfig reads config.yaml from the directory. When it is absent,
// config.toml is read instead. When neither exists the defaults from
// GetDefaultConfig are used. Keys missing from a file keep their defaults.
//
// Example config.yaml:
//
//	logging:
//	  level: warn
//	  format: text
//	catalog:
//	  path: /etc/testctl/tables.yaml
//	orchestrator:
//	  stepTimeout: 5m
//	  maxConcurrency: 4
//	  dispatchRate: 10
//	  historySize: 100
//	executors:
//	  delayScale: 0.1
//	health:
//	  baseURL: http://localhost
//	  path: /actuator/health
//	  timeout: 2s
//	tracing:
//	  enabled: false
//
// The same settings in config.toml:
//
//	[orchestrator]
//	stepTimeout = "5m"
//	maxConcurrency = 4
//
// # Errors
//
// A malformed file yields a ConfigurationError carrying the file, the parser
// message and, for TOML, the line number. Values the components cannot use
// (negative timeouts, unknown log levels, relative base URLs) yield
// ValidationErrors listing every offending field.
package config
