package handlers

import (
	"context"
	"fmt"

	"github.com/oceanforge/oceanforge/internal/provisioning"
)

// SecretsPublish publishes credentials as GitHub Actions secrets without
// provisioning anything else.
//
// The bucket name is derived from configuration rather than a live lookup,
// so publishing works before the bucket exists. SMTP secrets are only
// available through a full 'up' run and are skipped here.
func SecretsPublish(ctx context.Context, configPath, envName string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	env, err := selectEnvironment(cfg, envName)
	if err != nil {
		return err
	}

	creds := readCredentials()
	if err := creds.Require("DIGITALOCEAN_TOKEN", "SPACES_ACCESS_KEY", "SPACES_SECRET_KEY", "GITHUB_TOKEN"); err != nil {
		return err
	}

	pctx := provisioning.NewContext(ctx, cfg, env, creds)
	pctx.Store = newSecretStore(ctx, creds.GithubToken, cfg.Github.Owner, cfg.Github.Repo)
	pctx.State.BucketName = cfg.StateBucket()

	if err := runPhases(pctx, []provisioning.Phase{provisioning.SecretsPhase{}}); err != nil {
		return err
	}

	fmt.Println()
	for _, name := range pctx.State.PublishedSecrets {
		fmt.Printf("  published %s\n", name)
	}
	for _, name := range pctx.State.SkippedSecrets {
		fmt.Printf("  skipped   %s (empty)\n", name)
	}
	fmt.Println()

	return nil
}
