// Package main is the entry point for the oceanforge CLI.
//
// oceanforge bootstraps a GitOps template repository onto DigitalOcean.
// It substitutes placeholders in the Flux tree, provisions the Spaces
// state bucket, SES SMTP credentials and the Kubernetes cluster, publishes
// repository secrets, and finally ejects the template tooling.
//
// Commands: init, render, up, secrets, eject, doctor.
//
// For detailed usage information, run:
//
//	oceanforge --help
package main

import (
	"fmt"
	"os"

	"github.com/oceanforge/oceanforge/cmd/oceanforge/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
