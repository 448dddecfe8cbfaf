// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/funcspot/schema"
)

// GitClient defines the necessary operations for per-file history analysis.
// This allows the core analysis logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Reference Resolution ---

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetRepoHash resolves a Git reference (commit hash, tag, branch name)
	// to its full commit hash.
	GetRepoHash(ctx context.Context, repoPath string, ref string) (string, error)

	// --- File State / Content ---

	// ListFilesAtRef returns a list of all trackable files in the repository at a specific reference.
	ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error)

	// FileCommitHistory returns the hashes of all commits that touched the
	// given path, newest first, bounded by the given reference.
	FileCommitHistory(ctx context.Context, repoPath string, path string, ref string) ([]string, error)

	// FileDiffInCommit returns the unified diff the given commit applied to
	// the given path.
	FileDiffInCommit(ctx context.Context, repoPath string, sha string, path string) ([]byte, error)

	// BlobAtCommit returns the content of the given path as it existed at
	// the given commit.
	BlobAtCommit(ctx context.Context, repoPath string, sha string, path string) ([]byte, error)
}

// FuncParser defines the capability of producing function spans from
// source text. One implementation exists per supported language.
type FuncParser interface {
	// Language returns the grammar this parser handles.
	Language() schema.Language

	// Extract returns every function definition span found in the source,
	// one span per nesting level, ordered by start line. It is total:
	// malformed input yields the best-effort subset of spans that could be
	// recognized, with degraded set to true, never an error.
	Extract(ctx context.Context, source []byte) (spans []schema.FunctionSpan, degraded bool)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetActivityStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking analysis runs and storing
// per-function counts.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalFiles int) error

	// RecordFunctionCounts stores the ranked function counts for a run
	RecordFunctionCounts(analysisID int64, analysisTime time.Time, records []schema.FuncRecord) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every recorded analysis run
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllFunctionCounts returns every recorded function count row
	GetAllFunctionCounts() ([]schema.FunctionCountRecord, error)

	// Close closes the underlying connection
	Close() error
}
