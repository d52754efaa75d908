package handlers

import (
	"fmt"

	"github.com/oceanforge/oceanforge/internal/template"
)

// Render substitutes template placeholders across the checkout at rootPath
// using values for the selected environment.
func Render(configPath, rootPath, envName string, strict bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	env, err := selectEnvironment(cfg, envName)
	if err != nil {
		return err
	}

	replacer := &template.Replacer{
		Root:        rootPath,
		Values:      template.ValuesForEnvironment(cfg, env),
		ClusterName: cfg.ClusterName(env),
	}

	result, err := replacer.Run()
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if result.RenamedClusterDir != "" {
		fmt.Printf("Renamed cluster directory to %s\n", result.RenamedClusterDir)
	}
	fmt.Printf("Rewrote %d file(s)\n", len(result.ChangedFiles))

	if len(result.Unresolved) > 0 {
		fmt.Printf("\nUnresolved placeholders:\n%s", template.DescribeUnresolved(result.Unresolved))
		if strict {
			return fmt.Errorf("%d placeholder(s) unresolved", len(result.Unresolved))
		}
	}

	return nil
}
