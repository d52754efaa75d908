// Package github publishes Actions secrets, labels and pull requests to the
// repository the template lives in.
package github

import (
	"context"
	"fmt"

	gogithub "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API for one repository.
type Client struct {
	gh    *gogithub.Client
	owner string
	repo  string
}

// NewClient creates a client for owner/repo authenticated with a token.
func NewClient(ctx context.Context, token, owner, repo string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		gh:    gogithub.NewClient(oauth2.NewClient(ctx, ts)),
		owner: owner,
		repo:  repo,
	}
}

// newWithGithub wires an arbitrary go-github client; used by tests.
func newWithGithub(gh *gogithub.Client, owner, repo string) *Client {
	return &Client{gh: gh, owner: owner, repo: repo}
}

// PutSecret seals and writes one Actions repository secret.
func (c *Client) PutSecret(ctx context.Context, name, value string) error {
	key, _, err := c.gh.Actions.GetRepoPublicKey(ctx, c.owner, c.repo)
	if err != nil {
		return fmt.Errorf("failed to fetch repository public key: %w", err)
	}

	sealed, err := sealSecret(value, key.GetKey())
	if err != nil {
		return err
	}

	secret := &gogithub.EncryptedSecret{
		Name:           name,
		KeyID:          key.GetKeyID(),
		EncryptedValue: sealed,
	}
	if _, err := c.gh.Actions.CreateOrUpdateRepoSecret(ctx, c.owner, c.repo, secret); err != nil {
		return fmt.Errorf("failed to set secret %s: %w", name, err)
	}
	return nil
}

// Label describes a repository issue label.
type Label struct {
	Name        string
	Color       string
	Description string
}

// DefaultLabels are the project labels created during setup.
var DefaultLabels = []Label{
	{Name: "infrastructure", Color: "1d76db", Description: "Terraform and cluster changes"},
	{Name: "gitops", Color: "0e8a16", Description: "Flux manifests and application deployments"},
	{Name: "secrets", Color: "d93f0b", Description: "Secret rotation and credential changes"},
	{Name: "template-sync", Color: "fbca04", Description: "Upstream template updates"},
}

// EnsureLabels creates any of the given labels that do not exist yet.
// Returns the names of labels actually created.
func (c *Client) EnsureLabels(ctx context.Context, labels []Label) ([]string, error) {
	existing, _, err := c.gh.Issues.ListLabels(ctx, c.owner, c.repo, &gogithub.ListOptions{PerPage: 100})
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	present := make(map[string]bool, len(existing))
	for _, l := range existing {
		present[l.GetName()] = true
	}

	var created []string
	for _, label := range labels {
		if present[label.Name] {
			continue
		}
		_, _, err := c.gh.Issues.CreateLabel(ctx, c.owner, c.repo, &gogithub.Label{
			Name:        gogithub.Ptr(label.Name),
			Color:       gogithub.Ptr(label.Color),
			Description: gogithub.Ptr(label.Description),
		})
		if err != nil {
			return created, fmt.Errorf("failed to create label %s: %w", label.Name, err)
		}
		created = append(created, label.Name)
	}
	return created, nil
}

// CreatePullRequest opens a pull request from head into base and returns
// its HTML URL.
func (c *Client) CreatePullRequest(ctx context.Context, title, head, base, body string) (string, error) {
	pr, _, err := c.gh.PullRequests.Create(ctx, c.owner, c.repo, &gogithub.NewPullRequest{
		Title: gogithub.Ptr(title),
		Head:  gogithub.Ptr(head),
		Base:  gogithub.Ptr(base),
		Body:  gogithub.Ptr(body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create pull request: %w", err)
	}
	return pr.GetHTMLURL(), nil
}
