// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the oceanforge CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oceanforge",
		Short: "Bootstrap a GitOps template onto DigitalOcean",
	}

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Render())
	cmd.AddCommand(Up())
	cmd.AddCommand(Secrets())
	cmd.AddCommand(Eject())
	cmd.AddCommand(Doctor())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
