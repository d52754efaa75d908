package commands

import (
	"github.com/spf13/cobra"

	"github.com/oceanforge/oceanforge/cmd/oceanforge/handlers"
)

// Up returns the command for provisioning cloud resources.
//
// Flags:
//
//	--config, -c: Path to configuration file (default: auto-detect oceanforge.json)
//	--env, -e: Environment to provision (default: first configured)
//	--with-cluster: Also create the Kubernetes cluster
//	--no-tui: Plain log output instead of the interactive dashboard
//	--yes, -y: Skip the confirmation prompt
//
// Environment variables:
//
//	DIGITALOCEAN_TOKEN: DigitalOcean API token (required)
//	SPACES_ACCESS_KEY, SPACES_SECRET_KEY: Spaces keys (required)
//	AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY: IAM keys for SES (required)
//	GITHUB_TOKEN: token with repo scope for secret publishing (required)
func Up() *cobra.Command {
	var (
		configPath  string
		envName     string
		withCluster bool
		noTUI       bool
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Provision cloud resources and publish secrets",
		Long: `Provision cloud resources and publish repository secrets.

Runs the provisioning phases in order: Spaces state bucket, SES SMTP
credentials, GitHub repository secrets, DigitalOcean project and labels,
and optionally the Kubernetes cluster.

Every phase is idempotent: resources that already exist are reported
and skipped, never modified. A failing phase aborts the run; re-running
resumes safely because completed work is skipped.

A summary of the resources to be touched is shown for confirmation
before anything runs. Pass --yes to skip the prompt, which is required
when running non-interactively.

Examples:
  # Provision everything except the cluster
  oceanforge up

  # Provision including the Kubernetes cluster
  oceanforge up --with-cluster

  # Provision the production environment non-interactively
  oceanforge up -e production --no-tui --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), configPath, envName, withCluster, noTUI, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: oceanforge.json)")
	cmd.Flags().StringVarP(&envName, "env", "e", "", "Environment to provision")
	cmd.Flags().BoolVar(&withCluster, "with-cluster", false, "Also create the Kubernetes cluster")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Plain log output instead of the interactive dashboard")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
