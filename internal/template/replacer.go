package template

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/oceanforge/oceanforge/internal/config"
)

// TemplateClusterDir is the cluster directory name shipped by the template.
// It is renamed to the real cluster name before the text pass so path-based
// substitutions match the renamed tree.
const TemplateClusterDir = "flux/clusters/my-cluster"

// templateClusterSegment is the path segment rewritten inside file contents.
const templateClusterSegment = "clusters/my-cluster"

// tokenPattern matches {{NAME}} placeholder markers.
var tokenPattern = regexp.MustCompile(`\{\{([A-Z][A-Z0-9_]*)\}\}`)

// skippedDirs are never descended into during the text pass.
var skippedDirs = map[string]bool{
	".git":         true,
	".terraform":   true,
	"node_modules": true,
}

// Values maps placeholder token names to their replacement text.
type Values map[string]string

// ValuesForEnvironment builds the full token set for one environment.
func ValuesForEnvironment(cfg *config.Config, env config.Environment) Values {
	return Values{
		"PROJECT_NAME": cfg.Project.Name,
		"DOMAIN":       cfg.EnvironmentDomain(env),
		"EMAIL":        cfg.Project.Email,
		"CLUSTER_NAME": cfg.ClusterName(env),
		"REGION":       env.Cluster.Region,
		"REALM":        cfg.Realm(),
		"RETENTION":    cfg.Retention(),
		"BUCKET":       cfg.StateBucket(),
		"GITHUB_OWNER": cfg.Github.Owner,
		"GITHUB_REPO":  cfg.Github.Repo,
	}
}

// Result summarizes a render pass.
type Result struct {
	// RenamedClusterDir is the new cluster directory path, empty when the
	// template directory was not present (already renamed or never there).
	RenamedClusterDir string

	// ChangedFiles lists files rewritten by the text pass, repo-relative.
	ChangedFiles []string

	// Unresolved lists tokens still present after the pass, one entry per
	// distinct (file, token) pair. A missing wizard value shows up here
	// instead of failing silently.
	Unresolved []UnresolvedToken
}

// UnresolvedToken is a placeholder left behind by the text pass.
type UnresolvedToken struct {
	File  string
	Token string
}

// Replacer performs placeholder substitution over a template checkout.
type Replacer struct {
	// Root is the template checkout to rewrite.
	Root string

	// Values supplies replacements. Tokens absent from the map are left
	// in place and reported via Result.Unresolved.
	Values Values

	// ClusterName is the directory name replacing "my-cluster".
	ClusterName string
}

// Run renames the cluster directory, rewrites every tracked text file, and
// reports what changed and what remains unresolved. Re-running after a
// complete substitution is a no-op: no tokens remain to match.
func (r *Replacer) Run() (*Result, error) {
	result := &Result{}

	if err := r.renameClusterDir(result); err != nil {
		return nil, err
	}

	if err := r.rewriteFiles(result); err != nil {
		return nil, err
	}

	sort.Strings(result.ChangedFiles)
	sort.Slice(result.Unresolved, func(i, j int) bool {
		a, b := result.Unresolved[i], result.Unresolved[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Token < b.Token
	})
	return result, nil
}

// renameClusterDir moves flux/clusters/my-cluster to the real cluster name.
// Absence of the template directory is not an error.
func (r *Replacer) renameClusterDir(result *Result) error {
	if r.ClusterName == "" {
		return fmt.Errorf("cluster name is required")
	}

	oldPath := filepath.Join(r.Root, filepath.FromSlash(TemplateClusterDir))
	if _, err := os.Stat(oldPath); os.IsNotExist(err) {
		return nil
	}

	newRel := filepath.Join(filepath.Dir(filepath.FromSlash(TemplateClusterDir)), r.ClusterName)
	newPath := filepath.Join(r.Root, newRel)
	if _, err := os.Stat(newPath); err == nil {
		return fmt.Errorf("cannot rename %s: %s already exists", TemplateClusterDir, filepath.ToSlash(newRel))
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("failed to rename cluster directory: %w", err)
	}
	result.RenamedClusterDir = filepath.ToSlash(newRel)
	return nil
}

func (r *Replacer) rewriteFiles(result *Result) error {
	return filepath.Walk(r.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skippedDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		// #nosec G304
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if isBinary(data) {
			return nil
		}

		rewritten := r.substitute(data)

		rel, relErr := filepath.Rel(r.Root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if !bytes.Equal(rewritten, data) {
			if err := os.WriteFile(path, rewritten, info.Mode().Perm()); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			result.ChangedFiles = append(result.ChangedFiles, rel)
		}

		for _, token := range remainingTokens(rewritten) {
			result.Unresolved = append(result.Unresolved, UnresolvedToken{File: rel, Token: token})
		}
		return nil
	})
}

// substitute applies token and cluster-path replacements to file content.
// Tokens without a supplied value stay untouched.
func (r *Replacer) substitute(data []byte) []byte {
	out := tokenPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := string(tokenPattern.FindSubmatch(match)[1])
		if value, ok := r.Values[name]; ok && value != "" {
			return []byte(value)
		}
		return match
	})
	return bytes.ReplaceAll(out,
		[]byte(templateClusterSegment),
		[]byte("clusters/"+r.ClusterName))
}

// remainingTokens returns the distinct placeholder names still present.
func remainingTokens(data []byte) []string {
	matches := tokenPattern.FindAllSubmatch(data, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var tokens []string
	for _, m := range matches {
		name := string(m[1])
		if !seen[name] {
			seen[name] = true
			tokens = append(tokens, name)
		}
	}
	sort.Strings(tokens)
	return tokens
}

// isBinary applies git's heuristic: a NUL byte in the first 8000 bytes.
func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

// DescribeUnresolved formats unresolved tokens for warning output.
func DescribeUnresolved(unresolved []UnresolvedToken) string {
	var b strings.Builder
	for _, u := range unresolved {
		fmt.Fprintf(&b, "  %s: {{%s}}\n", u.File, u.Token)
	}
	return b.String()
}
