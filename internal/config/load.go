package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultConfigFile is the config file name looked up in the working
// directory when no --config flag is given.
const DefaultConfigFile = "oceanforge.json"

// Load reads and validates the configuration from a JSON file.
func Load(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Write serializes the configuration to a JSON file with stable,
// human-editable formatting.
func Write(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// FindConfigFile returns the explicit path if given, otherwise the default
// file name. An error is returned when the resolved file does not exist.
func FindConfigFile(path string) (string, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("config file %s not found (run 'oceanforge init' first): %w", path, err)
	}
	return path, nil
}

// applyDefaults fills optional fields the wizard may leave empty.
func applyDefaults(cfg *Config) {
	for i := range cfg.Environments {
		env := &cfg.Environments[i]
		if env.Cluster.Region == "" {
			env.Cluster.Region = DefaultRegion
		}
		if env.Cluster.NodeSize == "" {
			env.Cluster.NodeSize = DefaultNodeSize
		}
		if env.Cluster.NodeCount == 0 {
			env.Cluster.NodeCount = DefaultNodeCount
		}
	}
	if cfg.Settings.Retention == "" {
		cfg.Settings.Retention = DefaultRetention
	}
}
