// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/oceanforge/oceanforge/internal/config"
	"github.com/oceanforge/oceanforge/internal/platform/do"
	gh "github.com/oceanforge/oceanforge/internal/platform/github"
	"github.com/oceanforge/oceanforge/internal/platform/ses"
	"github.com/oceanforge/oceanforge/internal/platform/spaces"
	"github.com/oceanforge/oceanforge/internal/provisioning"
	"github.com/oceanforge/oceanforge/internal/ui/tui"
	"github.com/oceanforge/oceanforge/internal/util/prerequisites"
)

const kubeconfigPath = "kubeconfig"

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newSpacesClient creates the Spaces object-storage client.
	newSpacesClient = func(ctx context.Context, region, accessKey, secretKey string) (provisioning.SpacesService, error) {
		return spaces.NewClient(ctx, region, accessKey, secretKey)
	}

	// newMailClient creates the IAM client for SES credentials.
	newMailClient = func(ctx context.Context, accessKeyID, secretAccessKey, region string) (provisioning.MailService, error) {
		return ses.NewClient(ctx, accessKeyID, secretAccessKey, region)
	}

	// newSecretStore creates the GitHub client for secret publishing.
	newSecretStore = func(ctx context.Context, token, owner, repo string) provisioning.SecretStore {
		return gh.NewClient(ctx, token, owner, repo)
	}

	// newCloudClient creates the DigitalOcean client.
	newCloudClient = func(token string) provisioning.CloudService {
		return do.NewClient(token)
	}

	// checkDefaultPrereqs runs prerequisite checks.
	checkDefaultPrereqs = prerequisites.CheckDefault

	// confirmProvision asks before any cloud resource is touched.
	confirmProvision = func(summary string) (bool, error) {
		proceed := true
		err := huh.NewConfirm().
			Title("Provision these resources?").
			Description(summary).
			Affirmative("Provision").
			Negative("Cancel").
			Value(&proceed).
			Run()
		if err != nil {
			return false, err
		}
		return proceed, nil
	}

	// runPhases runs the provisioning pipeline.
	runPhases = provisioning.RunPhases

	// runUpTUI runs the interactive dashboard.
	runUpTUI = tui.RunUpTUI

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile
)

// Up provisions cloud resources for one environment and publishes repository
// secrets.
//
// The workflow:
//  1. Loads and validates the project configuration
//  2. Requires all provisioning credentials in the environment
//  3. Provisions the Spaces state bucket with a bucket-scoped access key,
//     SES SMTP credentials, GitHub
//     repository secrets and the DigitalOcean project with labels
//  4. Optionally creates the Kubernetes cluster and writes its kubeconfig
//
// Each phase skips resources that already exist, so re-running after a
// failure resumes where the previous run stopped.
//
// Nothing is provisioned before the user confirms the resource summary.
// The yes flag answers the confirmation up front; without it a
// non-interactive run refuses to proceed.
func Up(ctx context.Context, configPath, envName string, withCluster, noTUI, yes bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	env, err := selectEnvironment(cfg, envName)
	if err != nil {
		return err
	}

	creds := readCredentials()
	required := []string{
		"DIGITALOCEAN_TOKEN",
		"SPACES_ACCESS_KEY", "SPACES_SECRET_KEY",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"GITHUB_TOKEN",
	}
	if err := creds.Require(required...); err != nil {
		return err
	}

	if err := checkDefaultPrereqs().Error(); err != nil {
		return err
	}

	clusterName := cfg.ClusterName(env)

	if !yes {
		if !isInteractiveTTY() {
			return fmt.Errorf("refusing to provision without confirmation; pass --yes to proceed")
		}
		proceed, err := confirmProvision(provisionSummary(cfg, env, clusterName, withCluster))
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !proceed {
			fmt.Println("Canceled, no resources were touched.")
			return nil
		}
	}

	pctx, err := buildProvisioningContext(ctx, cfg, env, creds)
	if err != nil {
		return err
	}

	phases := []provisioning.Phase{
		provisioning.BucketPhase{},
		provisioning.MailPhase{},
		provisioning.SecretsPhase{},
		provisioning.ProjectPhase{},
	}
	if withCluster {
		phases = append(phases, provisioning.ClusterPhase{})
	}

	if !noTUI && isInteractiveTTY() {
		err = runUpTUI(func(obs provisioning.Observer) error {
			pctx.Observer = obs
			return runPhases(pctx, phases)
		}, clusterName, env.Cluster.Region, withCluster)
	} else {
		err = runPhases(pctx, phases)
	}
	if err != nil {
		return err
	}

	if len(pctx.State.Kubeconfig) > 0 {
		if err := writeFile(kubeconfigPath, pctx.State.Kubeconfig, 0o600); err != nil {
			return fmt.Errorf("failed to write kubeconfig: %w", err)
		}
	}

	printUpSummary(pctx.State, clusterName)

	return nil
}

// buildProvisioningContext wires the cloud clients into a provisioning context.
func buildProvisioningContext(ctx context.Context, cfg *config.Config, env config.Environment, creds config.Credentials) (*provisioning.Context, error) {
	pctx := provisioning.NewContext(ctx, cfg, env, creds)

	spacesClient, err := newSpacesClient(ctx, env.Cluster.Region, creds.SpacesAccessKey, creds.SpacesSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces client: %w", err)
	}
	pctx.Spaces = spacesClient

	mailClient, err := newMailClient(ctx, creds.AWSAccessKeyID, creds.AWSSecretAccessKey, creds.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create IAM client: %w", err)
	}
	pctx.Mail = mailClient

	pctx.Store = newSecretStore(ctx, creds.GithubToken, cfg.Github.Owner, cfg.Github.Repo)
	pctx.Cloud = newCloudClient(creds.DigitalOceanToken)

	return pctx, nil
}

// provisionSummary lists the resources a run is about to touch, shown in the
// confirmation prompt.
func provisionSummary(cfg *config.Config, env config.Environment, clusterName string, withCluster bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bucket   %s (%s)\n", cfg.StateBucket(), env.Cluster.Region)
	fmt.Fprintf(&b, "Mailer   %s\n", cfg.MailUser())
	fmt.Fprintf(&b, "Secrets  %s/%s\n", cfg.Github.Owner, cfg.Github.Repo)
	fmt.Fprintf(&b, "Project  %s\n", cfg.Project.Name)
	if withCluster {
		fmt.Fprintf(&b, "Cluster  %s (%d x %s)\n", clusterName, env.Cluster.NodeCount, env.Cluster.NodeSize)
	}
	return b.String()
}

// printUpSummary prints what the run created, skipped and published.
func printUpSummary(state *provisioning.State, clusterName string) {
	fmt.Println()
	fmt.Println("Provisioning complete")
	fmt.Println("---------------------")

	existed := func(b bool) string {
		if b {
			return "already existed"
		}
		return "created"
	}

	fmt.Printf("  Bucket:  %s (%s)\n", state.BucketName, existed(state.BucketExisted))
	if state.ScopedKey != nil {
		fmt.Printf("  Key:     %s (%s)\n", state.ScopedKey.Name, existed(state.ScopedKeyExisted))
	}
	fmt.Printf("  Mailer:  %s (%s)\n", state.MailUser, existed(state.MailUserExisted))
	if state.SMTP == nil {
		fmt.Println("  SMTP:    existing access key kept, credentials not rotated")
	}
	fmt.Printf("  Secrets: %d published, %d skipped\n", len(state.PublishedSecrets), len(state.SkippedSecrets))
	if state.ProjectID != "" {
		fmt.Printf("  Project: %s (%s)\n", state.ProjectID, existed(state.ProjectExisted))
	}
	if state.ClusterID != "" {
		fmt.Printf("  Cluster: %s (%s)\n", clusterName, existed(state.ClusterExisted))
		if len(state.Kubeconfig) > 0 {
			fmt.Printf("  Kubeconfig written to %s\n", kubeconfigPath)
		}
	}
	fmt.Println()
}
