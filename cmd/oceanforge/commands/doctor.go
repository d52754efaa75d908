package commands

import (
	"github.com/spf13/cobra"

	"github.com/oceanforge/oceanforge/cmd/oceanforge/handlers"
)

// Doctor returns the command for diagnosing the project and cluster state.
//
// Flags:
//
//	--config, -c: Path to configuration file (default: auto-detect oceanforge.json)
//	--env, -e: Environment to diagnose (default: first configured)
//	--kubeconfig: Path to the cluster kubeconfig (default "kubeconfig")
//	--watch, -w: Keep the dashboard open and refresh continuously
//	--json: Output in JSON format
func Doctor() *cobra.Command {
	var (
		configPath     string
		envName        string
		kubeconfigPath string
		watch          bool
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose project configuration and cluster health",
		Long: `Diagnose project configuration and cluster health.

Without a kubeconfig: validates the configuration, checks required
tools on the PATH and reports which credentials are present in the
environment.

With a kubeconfig: additionally probes the cluster for node readiness
and Flux controller health.

Examples:
  # One-shot diagnosis
  oceanforge doctor

  # Live dashboard, refreshed every few seconds
  oceanforge doctor --watch

  # Machine-readable output
  oceanforge doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath, envName, kubeconfigPath, watch, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: oceanforge.json)")
	cmd.Flags().StringVarP(&envName, "env", "e", "", "Environment to diagnose")
	cmd.Flags().StringVar(&kubeconfigPath, "kubeconfig", "kubeconfig", "Path to the cluster kubeconfig")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep the dashboard open and refresh continuously")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
