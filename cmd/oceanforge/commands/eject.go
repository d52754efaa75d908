package commands

import (
	"github.com/spf13/cobra"

	"github.com/oceanforge/oceanforge/cmd/oceanforge/handlers"
)

// Eject returns the command for removing template tooling from a checkout.
//
// Flags:
//
//	--config, -c: Path to configuration file (default: auto-detect oceanforge.json)
//	--path: Checkout to eject (default: current directory)
//	--pr: Commit to a branch and open a pull request instead of HEAD
func Eject() *cobra.Command {
	var (
		configPath string
		rootPath   string
		openPR     bool
	)

	cmd := &cobra.Command{
		Use:   "eject",
		Short: "Remove template tooling from the repository",
		Long: `Remove template tooling from the repository.

Deletes the setup scripts and template documentation that have no
purpose once the project is bootstrapped, and commits the removal.
Paths can be added via a .oceanforge-eject.yaml override file.

With --pr the removal is committed to a dedicated branch and a pull
request is opened against the default branch, so the deletion can be
reviewed instead of landing directly.

Examples:
  # Eject, committing directly to the current branch
  oceanforge eject

  # Eject via pull request
  oceanforge eject --pr`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Eject(cmd.Context(), configPath, rootPath, openPR)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: oceanforge.json)")
	cmd.Flags().StringVar(&rootPath, "path", ".", "Checkout to eject")
	cmd.Flags().BoolVar(&openPR, "pr", false, "Commit to a branch and open a pull request")

	return cmd
}
