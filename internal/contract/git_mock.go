package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}

// GetRepoHash implements the GitClient interface.
func (m *MockGitClient) GetRepoHash(ctx context.Context, repoPath string, ref string) (string, error) {
	ret := m.Called(ctx, repoPath, ref)
	hash, _ := ret.Get(0).(string)
	return hash, ret.Error(1)
}

// ListFilesAtRef implements the GitClient interface.
func (m *MockGitClient) ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error) {
	ret := m.Called(ctx, repoPath, ref)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// FileCommitHistory implements the GitClient interface.
func (m *MockGitClient) FileCommitHistory(ctx context.Context, repoPath string, path string, ref string) ([]string, error) {
	ret := m.Called(ctx, repoPath, path, ref)
	shas, _ := ret.Get(0).([]string)
	return shas, ret.Error(1)
}

// FileDiffInCommit implements the GitClient interface.
func (m *MockGitClient) FileDiffInCommit(ctx context.Context, repoPath string, sha string, path string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, sha, path)
	raw, _ := ret.Get(0).([]byte)
	return raw, ret.Error(1)
}

// BlobAtCommit implements the GitClient interface.
func (m *MockGitClient) BlobAtCommit(ctx context.Context, repoPath string, sha string, path string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, sha, path)
	blob, _ := ret.Get(0).([]byte)
	return blob, ret.Error(1)
}
