package commands

import (
	"github.com/spf13/cobra"

	"github.com/oceanforge/oceanforge/cmd/oceanforge/handlers"
)

// Init returns the command for interactively creating a project configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "oceanforge.json")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a project configuration",
		Long: `Interactively create a project configuration file.

This command guides you through configuring your GitOps project
step by step. It will ask about:

  - Project identity (name, domain, admin email)
  - GitHub repository (owner and name)
  - Environments and their cluster shape (region, node size, count)
  - Applications to enable

The answers are written as JSON and read by every other command.
Re-run init at any time to regenerate the file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "oceanforge.json", "Output file path")

	return cmd
}
