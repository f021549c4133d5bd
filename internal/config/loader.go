package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/giantswarm/testctl/pkg/logging"
)

const (
	userConfigDir      = ".config/testctl"
	configFileName     = "config.yaml"
	tomlConfigFileName = "config.toml"
)

func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads configuration from a single specified directory.
// config.yaml wins over config.toml; without either file the defaults are
// returned. Values that are absent from the file keep their defaults. The
// result is validated before it is returned.
func LoadConfig(configPath string) (TestctlConfig, error) {
	config := GetDefaultConfig()

	yamlPath := filepath.Join(configPath, configFileName)
	data, err := os.ReadFile(yamlPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return TestctlConfig{}, parseError(yamlPath, err)
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", yamlPath)
	case errors.Is(err, os.ErrNotExist):
		loaded, err := loadTOML(filepath.Join(configPath, tomlConfigFileName), &config)
		if err != nil {
			return TestctlConfig{}, err
		}
		if !loaded {
			logging.Info("ConfigLoader", "No config.yaml or config.toml found in %s, using defaults", configPath)
		}
	default:
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", yamlPath, err)
		return TestctlConfig{}, err
	}

	if err := config.Validate(); err != nil {
		return TestctlConfig{}, err
	}
	return config, nil
}

func loadTOML(path string, config *TestctlConfig) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	md, err := toml.DecodeFile(path, config)
	if err != nil {
		return false, parseError(path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logging.Warn("ConfigLoader", "Ignoring unknown keys in %s: %v", path, undecoded)
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	return true, nil
}

func parseError(path string, err error) ConfigurationError {
	ce := NewConfigurationErrorWithDetails(path, filepath.Base(path), "parse",
		"configuration file is malformed", err.Error(),
		[]string{
			"Check the file for indentation or quoting mistakes",
			"Durations are written as strings such as \"5m\" or \"300s\"",
		})
	var tomlErr toml.ParseError
	if errors.As(err, &tomlErr) {
		ce.LineNumber = tomlErr.Position.Line
	}
	return ce
}
