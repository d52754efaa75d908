package handlers

import (
	"context"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	gh "github.com/oceanforge/oceanforge/internal/platform/github"
	"github.com/oceanforge/oceanforge/internal/template"
)

// Factory function variables for eject - can be replaced in tests.
var (
	// ejectCheckout removes template tooling and commits the removal.
	ejectCheckout = template.Eject

	// pushBranch pushes the eject branch to origin using token auth.
	pushBranch = func(root, branch, token string) error {
		repo, err := gogit.PlainOpen(root)
		if err != nil {
			return err
		}
		refSpec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
		return repo.Push(&gogit.PushOptions{
			RemoteName: "origin",
			RefSpecs:   []gitconfig.RefSpec{refSpec},
			Auth: &githttp.BasicAuth{
				Username: "x-access-token",
				Password: token,
			},
		})
	}

	// openPullRequest opens the eject pull request.
	openPullRequest = func(ctx context.Context, token, owner, repo, title, head, base, body string) (string, error) {
		return gh.NewClient(ctx, token, owner, repo).CreatePullRequest(ctx, title, head, base, body)
	}
)

// Eject removes template tooling from the checkout at rootPath and commits
// the removal. With openPR the removal lands on a dedicated branch and a
// pull request is opened against the default branch.
func Eject(ctx context.Context, configPath, rootPath string, openPR bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	creds := readCredentials()
	if openPR {
		if err := creds.Require("GITHUB_TOKEN"); err != nil {
			return err
		}
	}

	opts := template.EjectOptions{
		AuthorName:  "oceanforge",
		AuthorEmail: cfg.Project.Email,
	}
	if openPR {
		opts.Branch = template.EjectBranch
	}

	result, err := ejectCheckout(rootPath, opts)
	if err != nil {
		return fmt.Errorf("eject failed: %w", err)
	}

	for _, path := range result.Removed {
		fmt.Printf("  removed %s\n", path)
	}
	if result.CommitHash == "" {
		fmt.Println("Nothing to eject.")
		return nil
	}
	fmt.Printf("Committed %s\n", result.CommitHash)

	if !openPR {
		return nil
	}

	if err := pushBranch(rootPath, result.Branch, creds.GithubToken); err != nil {
		return fmt.Errorf("failed to push %s: %w", result.Branch, err)
	}

	body := fmt.Sprintf("Removes the template setup tooling:\n\n- %s\n", strings.Join(result.Removed, "\n- "))
	url, err := openPullRequest(ctx, creds.GithubToken, cfg.Github.Owner, cfg.Github.Repo,
		"Remove template tooling", result.Branch, "main", body)
	if err != nil {
		return fmt.Errorf("failed to open pull request: %w", err)
	}

	fmt.Printf("Opened %s\n", url)
	return nil
}
