package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a git repository with the given files committed.
func initRepo(t *testing.T, files []string) string {
	t.Helper()
	root := t.TempDir()

	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("content\n"), 0o644))
		_, err := worktree.Add(rel)
		require.NoError(t, err)
	}

	_, err = worktree.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com"},
	})
	require.NoError(t, err)
	return root
}

func TestEject_RemovesExactlyTheListedFiles(t *testing.T) {
	root := initRepo(t, []string{
		"scripts/initial-setup.sh",
		"scripts/setup.ts",
		"TEMPLATE.md",
		"README.md",
		"flux/app.yaml",
	})

	result, err := Eject(root, EjectOptions{AuthorName: "test", AuthorEmail: "test@example.com"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"scripts/initial-setup.sh",
		"scripts/setup.ts",
		"TEMPLATE.md",
	}, result.Removed)
	assert.NotEmpty(t, result.CommitHash)

	// Untracked-by-the-list files survive.
	assert.FileExists(t, filepath.Join(root, "README.md"))
	assert.FileExists(t, filepath.Join(root, "flux/app.yaml"))
	assert.NoFileExists(t, filepath.Join(root, "TEMPLATE.md"))
}

func TestEject_MissingFilesSilentlySkipped(t *testing.T) {
	root := initRepo(t, []string{"TEMPLATE.md", "README.md"})

	result, err := Eject(root, EjectOptions{AuthorName: "test", AuthorEmail: "test@example.com"})
	require.NoError(t, err)

	assert.Equal(t, []string{"TEMPLATE.md"}, result.Removed)
	assert.Contains(t, result.Skipped, "scripts/setup.ts")
}

func TestEject_NothingToRemove(t *testing.T) {
	root := initRepo(t, []string{"README.md"})

	result, err := Eject(root, EjectOptions{AuthorName: "test", AuthorEmail: "test@example.com"})
	require.NoError(t, err)
	assert.Empty(t, result.Removed)
	assert.Empty(t, result.CommitHash, "no commit when nothing was removed")
}

func TestEject_BranchVariant(t *testing.T) {
	root := initRepo(t, []string{"TEMPLATE.md"})

	result, err := Eject(root, EjectOptions{
		Branch:      EjectBranch,
		AuthorName:  "test",
		AuthorEmail: "test@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, EjectBranch, result.Branch)
	assert.NotEmpty(t, result.CommitHash)

	repo, err := git.PlainOpen(root)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/"+EjectBranch, head.Name().String())
}

func TestEject_BranchVariantNothingToRemoveStaysOnCurrentBranch(t *testing.T) {
	root := initRepo(t, []string{"README.md"})

	repo, err := git.PlainOpen(root)
	require.NoError(t, err)
	before, err := repo.Head()
	require.NoError(t, err)

	result, err := Eject(root, EjectOptions{
		Branch:      EjectBranch,
		AuthorName:  "test",
		AuthorEmail: "test@example.com",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Removed)
	assert.Empty(t, result.CommitHash)
	assert.Empty(t, result.Branch)

	after, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, before.Name(), after.Name(), "checkout must not be parked on the eject branch")

	_, err = repo.Reference(plumbing.NewBranchReferenceName(EjectBranch), false)
	assert.Error(t, err, "eject branch must not be created")
}

func TestEject_NotARepository(t *testing.T) {
	_, err := Eject(t.TempDir(), EjectOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open git repository")
}

func TestRemovalList_Override(t *testing.T) {
	root := t.TempDir()
	override := "remove:\n  - custom/file.yaml\n  - another.md\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, removalOverrideFile), []byte(override), 0o644))

	files, err := RemovalList(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"custom/file.yaml", "another.md"}, files)
}

func TestRemovalList_DefaultWhenNoOverride(t *testing.T) {
	files, err := RemovalList(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultRemovalList, files)
}

func TestRemovalList_EmptyOverrideRejected(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, removalOverrideFile), []byte("remove: []\n"), 0o644))

	_, err := RemovalList(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lists no files")
}
