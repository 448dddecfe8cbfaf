package contract

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// localClientOrSkip builds a real git client rooted at this checkout,
// skipping when git or the repository is unavailable.
func localClientOrSkip(t *testing.T) (GitClient, string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
	client := NewLocalGitClient()
	root, err := client.GetRepoRoot(context.Background(), ".")
	if err != nil {
		t.Skipf("not running inside a Git repository: %v", err)
	}
	return client, root
}

func TestMockGitClient_Run(t *testing.T) {
	mockClient := new(MockGitClient)
	ctx := context.Background()

	wantOutput := []byte("a1b2c3d commit message")
	wantErr := errors.New("mocked git error")

	// Run flattens (ctx, repoPath, args...) into one argument list for
	// m.Called, so the expectation has to match that shape
	mockClient.
		On("Run", ctx, "/path/to/repo", "log", "-1", "--oneline").
		Return(wantOutput, wantErr).
		Once()

	gotOutput, gotErr := mockClient.Run(ctx, "/path/to/repo", "log", "-1", "--oneline")
	assert.Equal(t, wantOutput, gotOutput)
	assert.Equal(t, wantErr, gotErr)
	mockClient.AssertExpectations(t)
}

func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client)
	assert.IsType(t, &LocalGitClient{}, client)
}

func TestLocalGitClient_Run(t *testing.T) {
	client, repoRoot := localClientOrSkip(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		repoPath    string
		args        []string
		expectError bool
	}{
		{"invalid repo path", "/nonexistent/path", []string{"status"}, true},
		{"invalid git command", repoRoot, []string{"invalid-command"}, true},
		{"valid command", repoRoot, []string{"rev-parse", "--is-inside-work-tree"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Run(ctx, tt.repoPath, tt.args...)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocalGitClient_GetRepoRoot(t *testing.T) {
	client, root := localClientOrSkip(t)
	ctx := context.Background()
	assert.NotEmpty(t, root)

	// Asking from the root itself resolves to the same root
	root2, err := client.GetRepoRoot(ctx, root)
	assert.NoError(t, err)
	assert.Equal(t, root, root2)

	_, err = client.GetRepoRoot(ctx, "/nonexistent/path")
	assert.Error(t, err, "paths outside any repository should fail")
}

func TestLocalGitClient_GetRepoHash(t *testing.T) {
	client, repoRoot := localClientOrSkip(t)
	ctx := context.Background()

	hash, err := client.GetRepoHash(ctx, repoRoot, "HEAD")
	assert.NoError(t, err)
	assert.Len(t, hash, 40, "HEAD should resolve to a full SHA-1 hash")

	_, err = client.GetRepoHash(ctx, repoRoot, "definitely-not-a-ref-12345")
	assert.Error(t, err, "unknown refs should fail")
}

func TestLocalGitClient_ListFilesAtRef(t *testing.T) {
	client, repoRoot := localClientOrSkip(t)
	ctx := context.Background()

	files, err := client.ListFilesAtRef(ctx, repoRoot, "HEAD")
	assert.NoError(t, err)
	assert.NotEmpty(t, files, "HEAD should track at least one file")
	t.Logf("Found %d files at HEAD", len(files))

	_, err = client.ListFilesAtRef(ctx, repoRoot, "invalid-ref")
	assert.Error(t, err, "unknown refs should fail")
}

func TestLocalGitClient_FileCommitHistory(t *testing.T) {
	client, repoRoot := localClientOrSkip(t)
	ctx := context.Background()

	// go.mod is tracked from the first commit of this module
	shas, err := client.FileCommitHistory(ctx, repoRoot, "go.mod", "HEAD")
	assert.NoError(t, err)
	assert.NotEmpty(t, shas, "go.mod should have at least one commit")
	for _, sha := range shas {
		assert.Len(t, sha, 40, "each entry should be a full SHA-1 hash")
	}

	// Non-existent paths yield an empty history, not an error
	shas, err = client.FileCommitHistory(ctx, repoRoot, "definitely-nonexistent-file-12345.txt", "HEAD")
	assert.NoError(t, err)
	assert.Empty(t, shas)
}

func TestLocalGitClient_FileDiffInCommit(t *testing.T) {
	client, repoRoot := localClientOrSkip(t)
	ctx := context.Background()

	shas, err := client.FileCommitHistory(ctx, repoRoot, "go.mod", "HEAD")
	require.NoError(t, err)
	require.NotEmpty(t, shas, "go.mod should have at least one commit")

	// The oldest commit for go.mod introduced the file, so its patch is non-empty
	oldest := shas[len(shas)-1]
	patch, err := client.FileDiffInCommit(ctx, repoRoot, oldest, "go.mod")
	assert.NoError(t, err)
	assert.Contains(t, string(patch), "diff --git", "patch should carry a unified diff header")

	_, err = client.FileDiffInCommit(ctx, repoRoot, "0000000000000000000000000000000000000000", "go.mod")
	assert.Error(t, err, "unknown commits should fail")
}

func TestLocalGitClient_BlobAtCommit(t *testing.T) {
	client, repoRoot := localClientOrSkip(t)
	ctx := context.Background()

	blob, err := client.BlobAtCommit(ctx, repoRoot, "HEAD", "go.mod")
	assert.NoError(t, err)
	assert.Contains(t, string(blob), "module ", "go.mod blob should declare a module")

	_, err = client.BlobAtCommit(ctx, repoRoot, "HEAD", "definitely-nonexistent-file-12345.txt")
	assert.Error(t, err, "paths absent from the commit should fail")
}
