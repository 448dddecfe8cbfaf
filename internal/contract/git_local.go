package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRepoHash implements the GitClient interface.
func (c *LocalGitClient) GetRepoHash(ctx context.Context, repoPath string, ref string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", ref)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ListFilesAtRef implements the GitClient interface.
func (c *LocalGitClient) ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error) {
	args := []string{
		"ls-tree", "-r", "--name-only",
		ref,
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	files := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(files) == 1 && files[0] == "" {
		return []string{}, nil
	}
	return files, nil
}

// FileCommitHistory implements the GitClient interface. Renames are not
// followed: a renamed function starts a fresh history under its new path.
func (c *LocalGitClient) FileCommitHistory(ctx context.Context, repoPath string, path string, ref string) ([]string, error) {
	args := []string{
		"log", "--format=%H",
		ref,
		"--", path,
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	shas := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(shas) == 1 && shas[0] == "" {
		return []string{}, nil
	}
	return shas, nil
}

// FileDiffInCommit implements the GitClient interface. Merge commits
// produce an empty patch unless they conflicted on the path, which is the
// wanted behavior: a clean merge introduces no new change of its own.
func (c *LocalGitClient) FileDiffInCommit(ctx context.Context, repoPath string, sha string, path string) ([]byte, error) {
	args := []string{
		"show", sha,
		"--format=", "--patch", "--no-color",
		"--", path,
	}
	return c.Run(ctx, repoPath, args...)
}

// BlobAtCommit implements the GitClient interface.
func (c *LocalGitClient) BlobAtCommit(ctx context.Context, repoPath string, sha string, path string) ([]byte, error) {
	return c.Run(ctx, repoPath, "show", sha+":"+path)
}
