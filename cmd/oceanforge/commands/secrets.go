package commands

import (
	"github.com/spf13/cobra"

	"github.com/oceanforge/oceanforge/cmd/oceanforge/handlers"
)

// Secrets returns the parent command for repository secret operations.
func Secrets() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manage GitHub repository secrets",
	}

	cmd.AddCommand(secretsPublish())

	return cmd
}

// secretsPublish returns the command for publishing repository secrets.
func secretsPublish() *cobra.Command {
	var (
		configPath string
		envName    string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish credentials as GitHub Actions secrets",
		Long: `Publish credentials as GitHub Actions secrets.

Encrypts each value against the repository public key and uploads it.
Secrets with empty values are skipped with a warning rather than
published blank. Existing secrets are overwritten; the GitHub API
does not distinguish create from update.

Requires DIGITALOCEAN_TOKEN, SPACES_ACCESS_KEY, SPACES_SECRET_KEY and
GITHUB_TOKEN in the environment.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.SecretsPublish(cmd.Context(), configPath, envName)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: oceanforge.json)")
	cmd.Flags().StringVarP(&envName, "env", "e", "", "Environment the secrets target")

	return cmd
}
