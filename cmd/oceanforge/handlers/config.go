package handlers

import (
	"fmt"
	"strings"

	"github.com/oceanforge/oceanforge/internal/config"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// findConfigFile locates the configuration file.
	findConfigFile = config.FindConfigFile

	// loadConfigFile loads and validates the configuration.
	loadConfigFile = config.Load

	// readCredentials reads credentials from the environment.
	readCredentials = config.FromEnv
)

// loadConfig resolves the config path and loads the configuration.
func loadConfig(configPath string) (*config.Config, error) {
	path, err := findConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	return loadConfigFile(path)
}

// selectEnvironment picks the named environment, or the first configured one
// when name is empty.
func selectEnvironment(cfg *config.Config, name string) (config.Environment, error) {
	if len(cfg.Environments) == 0 {
		return config.Environment{}, fmt.Errorf("no environments configured")
	}
	if name == "" {
		return cfg.Environments[0], nil
	}
	var available []string
	for _, env := range cfg.Environments {
		if env.Name == name {
			return env, nil
		}
		available = append(available, env.Name)
	}
	return config.Environment{}, fmt.Errorf("unknown environment %q (available: %s)", name, strings.Join(available, ", "))
}
