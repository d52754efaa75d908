package template

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"gopkg.in/yaml.v3"
)

// DefaultRemovalList names the template-only files deleted on eject. These
// exist to keep a project synced with the upstream template; once the user
// opts out of template updates they serve no purpose.
var DefaultRemovalList = []string{
	".github/workflows/template-sync.yaml",
	".github/template-sync.yml",
	"scripts/initial-setup.sh",
	"scripts/setup-repo.sh",
	"scripts/setup.ts",
	"docs/template-usage.md",
	"TEMPLATE.md",
}

// removalOverrideFile optionally replaces the default removal list.
const removalOverrideFile = ".oceanforge-eject.yaml"

// EjectBranch is the branch pushed by the pull-request variant.
const EjectBranch = "chore/eject-template"

// ejectCommitMessage is used for the deletion commit.
const ejectCommitMessage = "Eject template files"

// EjectResult reports what the ejection actually did.
type EjectResult struct {
	Removed    []string
	Skipped    []string
	CommitHash string
	Branch     string
}

// EjectOptions controls ejection behavior.
type EjectOptions struct {
	// Branch, when set, creates and checks out that branch before
	// committing (the pull-request variant). Empty commits to HEAD.
	Branch string

	// AuthorName and AuthorEmail identify the deletion commit author.
	AuthorName  string
	AuthorEmail string
}

// RemovalList returns the configured removal list for a checkout: the
// override file when present, the fixed default otherwise.
func RemovalList(root string) ([]string, error) {
	path := filepath.Join(root, removalOverrideFile)
	data, err := os.ReadFile(path) // #nosec G304
	if os.IsNotExist(err) {
		return DefaultRemovalList, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", removalOverrideFile, err)
	}

	var override struct {
		Remove []string `yaml:"remove"`
	}
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", removalOverrideFile, err)
	}
	if len(override.Remove) == 0 {
		return nil, fmt.Errorf("%s present but lists no files to remove", removalOverrideFile)
	}
	return override.Remove, nil
}

// Eject deletes the removal-list files from the checkout at root and commits
// the deletions. Files not present are silently skipped. When no file was
// present at all, neither a branch nor a commit is created and the checkout
// stays on its current branch.
func Eject(root string, opts EjectOptions) (*EjectResult, error) {
	files, err := RemovalList(root)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", root, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	result := &EjectResult{}

	// Split present from absent before touching the branch or worktree:
	// an empty removal run must leave the checkout exactly as it was.
	var present []string
	for _, rel := range files {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); os.IsNotExist(err) {
			result.Skipped = append(result.Skipped, rel)
			continue
		}
		present = append(present, rel)
	}
	if len(present) == 0 {
		return result, nil
	}

	if opts.Branch != "" {
		if err := worktree.Checkout(&git.CheckoutOptions{
			Branch: plumbing.NewBranchReferenceName(opts.Branch),
			Create: true,
		}); err != nil {
			return nil, fmt.Errorf("failed to create branch %s: %w", opts.Branch, err)
		}
		result.Branch = opts.Branch
	}

	for _, rel := range present {
		if err := os.Remove(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			return nil, fmt.Errorf("failed to remove %s: %w", rel, err)
		}
		if _, err := worktree.Add(rel); err != nil {
			return nil, fmt.Errorf("failed to stage removal of %s: %w", rel, err)
		}
		result.Removed = append(result.Removed, rel)
	}

	commit, err := worktree.Commit(ejectCommitMessage, &git.CommitOptions{
		Author: &object.Signature{
			Name:  opts.AuthorName,
			Email: opts.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit deletions: %w", err)
	}
	result.CommitHash = commit.String()
	return result, nil
}
