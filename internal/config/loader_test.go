package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileName, `
logging:
  level: debug
orchestrator:
  stepTimeout: 90s
  maxConcurrency: 4
  dispatchRate: 2.5
executors:
  delayScale: 0
health:
  baseURL: http://services.internal
tracing:
  enabled: true
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 90*time.Second, cfg.Orchestrator.StepTimeout)
	assert.Equal(t, 4, cfg.Orchestrator.MaxConcurrency)
	assert.Equal(t, 2.5, cfg.Orchestrator.DispatchRate)
	assert.Equal(t, 100, cfg.Orchestrator.HistorySize)
	assert.Zero(t, cfg.Executors.DelayScale)
	assert.Equal(t, "http://services.internal", cfg.Health.BaseURL)
	assert.Equal(t, DefaultHealthPath, cfg.Health.Path)
	assert.Equal(t, 2*time.Second, cfg.Health.Timeout)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestLoadConfig_TOMLFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, tomlConfigFileName, `
[logging]
format = "json"

[orchestrator]
stepTimeout = "2m"
historySize = 10

[catalog]
path = "/etc/testctl/tables.yaml"
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, 2*time.Minute, cfg.Orchestrator.StepTimeout)
	assert.Equal(t, 10, cfg.Orchestrator.HistorySize)
	assert.Equal(t, "/etc/testctl/tables.yaml", cfg.Catalog.Path)
}

func TestLoadConfig_YAMLWinsOverTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileName, "logging:\n  level: error\n")
	writeFile(t, dir, tomlConfigFileName, "[logging]\nlevel = \"debug\"\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadConfig_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantLine bool
	}{
		{"yaml", configFileName, "logging: [unclosed\n", false},
		{"toml", tomlConfigFileName, "[orchestrator]\nhistorySize = = 3\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			_, err := LoadConfig(dir)
			require.Error(t, err)

			var ce ConfigurationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.file, ce.FileName)
			assert.Equal(t, "parse", ce.ErrorType)
			assert.NotEmpty(t, ce.Suggestions)
			assert.Contains(t, ce.DetailedError(), "Suggestions:")
			if tt.wantLine {
				assert.Equal(t, 2, ce.LineNumber)
			}
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileName, "orchestrator:\n  maxConcurrency: -1\n")

	_, err := LoadConfig(dir)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "orchestrator.maxConcurrency", verrs[0].Field)
}
