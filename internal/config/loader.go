package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"capstan/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/capstan"
	configFileName = "config.yaml"
)

// GetDefaultConfigPathOrPanic returns the per-user configuration directory.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads configuration from the specified directory. The
// directory should contain config.yaml; a missing file yields the
// defaults, a malformed one is an error.
func LoadConfig(configPath string) (CapstanConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return CapstanConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return CapstanConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}

	if config.Sanitizer.MaxDepth <= 0 {
		config.Sanitizer.MaxDepth = GetDefaultConfig().Sanitizer.MaxDepth
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}
