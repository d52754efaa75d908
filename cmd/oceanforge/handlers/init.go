package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/oceanforge/oceanforge/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive wizard.
	runWizard = config.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = config.Write
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := result.ToConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("oceanforge - GitOps on DigitalOcean")
	fmt.Println("===================================")
	fmt.Println()
	fmt.Println("This wizard creates a project configuration with sensible defaults.")
	fmt.Println("The answers are saved as JSON and read by every other command.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	// Summary
	fmt.Println("Project Summary")
	fmt.Println("---------------")
	fmt.Printf("  Name:       %s\n", cfg.Project.Name)
	fmt.Printf("  Domain:     %s\n", cfg.Project.Domain)
	fmt.Printf("  Repository: %s/%s\n", cfg.Github.Owner, cfg.Github.Repo)
	for _, env := range cfg.Environments {
		fmt.Printf("  %s: %d x %s in %s\n",
			env.Name, env.Cluster.NodeCount, env.Cluster.NodeSize, env.Cluster.Region)
	}
	if len(cfg.Applications) > 0 {
		fmt.Printf("  Applications: %s\n", strings.Join(cfg.Applications, ", "))
	}
	fmt.Println()

	// Next steps
	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Export your credentials:")
	fmt.Println("     export DIGITALOCEAN_TOKEN=<token>")
	fmt.Println("     export SPACES_ACCESS_KEY=<key> SPACES_SECRET_KEY=<secret>")
	fmt.Println("     export AWS_ACCESS_KEY_ID=<key> AWS_SECRET_ACCESS_KEY=<secret>")
	fmt.Println("     export GITHUB_TOKEN=<token>")
	fmt.Println()
	fmt.Println("  2. Substitute the template placeholders:")
	fmt.Println("     oceanforge render")
	fmt.Println()
	fmt.Println("  3. Provision cloud resources:")
	fmt.Println("     oceanforge up")
	fmt.Println()
}
