package commands

import (
	"github.com/spf13/cobra"

	"github.com/oceanforge/oceanforge/cmd/oceanforge/handlers"
)

// Render returns the command for substituting template placeholders.
//
// Flags:
//
//	--config, -c: Path to configuration file (default: auto-detect oceanforge.json)
//	--env, -e: Environment to render values for (default: first configured)
//	--path: Template checkout to rewrite (default: current directory)
//	--strict: Fail when placeholders remain unresolved
func Render() *cobra.Command {
	var (
		configPath string
		envName    string
		rootPath   string
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Substitute template placeholders with project values",
		Long: `Substitute template placeholders with project values.

Renames the Flux cluster directory to the real cluster name and rewrites
every {{TOKEN}} placeholder across the checkout. Tokens with no configured
value are left in place and reported; --strict turns them into an error.

Re-running after a complete substitution is a no-op.

Examples:
  # Render values for the first configured environment
  oceanforge render

  # Render production values and fail on leftovers
  oceanforge render -e production --strict`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Render(configPath, rootPath, envName, strict)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: oceanforge.json)")
	cmd.Flags().StringVarP(&envName, "env", "e", "", "Environment to render values for")
	cmd.Flags().StringVar(&rootPath, "path", ".", "Template checkout to rewrite")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when placeholders remain unresolved")

	return cmd
}
