package contract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/funcspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseInput returns a minimal valid raw input that individual cases tweak.
func baseInput() *ConfigRawInput {
	return &ConfigRawInput{
		Total:        10,
		Workers:      4,
		Output:       "text",
		Color:        "yes",
		CacheBackend: string(schema.SQLiteBackend),
		RepoPathStr:  ".",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
		check       func(*testing.T, *Config)
	}{
		{
			name: "valid minimal config",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.AllLanguages, cfg.Languages)
			},
		},
		{
			name:   "explicit language subset",
			mutate: func(in *ConfigRawInput) { in.Languages = "go, rust" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []schema.Language{schema.GoLang, schema.RustLang}, cfg.Languages)
			},
		},
		{
			name:        "invalid language",
			mutate:      func(in *ConfigRawInput) { in.Languages = "go,cobol" },
			expectError: true,
		},
		{
			name:   "compare mode with both refs",
			mutate: func(in *ConfigRawInput) { in.BaseRef, in.TargetRef = "main", "feature-branch" },
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.CompareMode)
				assert.Equal(t, "main", cfg.BaseRef)
				assert.Equal(t, "feature-branch", cfg.TargetRef)
			},
		},
		{
			name:        "compare mode missing base ref",
			mutate:      func(in *ConfigRawInput) { in.TargetRef = "feature-branch" },
			expectError: true,
		},
		{
			name:   "compare mode defaults target to HEAD",
			mutate: func(in *ConfigRawInput) { in.BaseRef = "v1.0.0" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "HEAD", cfg.TargetRef)
			},
		},
		{
			name:        "invalid total (zero)",
			mutate:      func(in *ConfigRawInput) { in.Total = 0 },
			expectError: true,
		},
		{
			name:        "invalid total (negative)",
			mutate:      func(in *ConfigRawInput) { in.Total = -1 },
			expectError: true,
		},
		{
			name:        "invalid total (too large)",
			mutate:      func(in *ConfigRawInput) { in.Total = 1001 },
			expectError: true,
		},
		{
			name:        "invalid skip (negative)",
			mutate:      func(in *ConfigRawInput) { in.Skip = -5 },
			expectError: true,
		},
		{
			name:        "invalid workers (zero)",
			mutate:      func(in *ConfigRawInput) { in.Workers = 0 },
			expectError: true,
		},
		{
			name:        "invalid workers (negative)",
			mutate:      func(in *ConfigRawInput) { in.Workers = -1 },
			expectError: true,
		},
		{
			name:        "invalid max-count (negative)",
			mutate:      func(in *ConfigRawInput) { in.MaxCount = -1 },
			expectError: true,
		},
		{
			name:        "invalid output format",
			mutate:      func(in *ConfigRawInput) { in.Output = "invalid_format" },
			expectError: true,
		},
		{
			name:        "invalid color value",
			mutate:      func(in *ConfigRawInput) { in.Color = "sometimes" },
			expectError: true,
		},
		{
			name:        "invalid cache backend",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "invalid_backend" },
			expectError: true,
		},
		{
			name:        "mysql backend without connection string",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = string(schema.MySQLBackend) },
			expectError: true,
		},
		{
			name:        "postgresql backend without connection string",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = string(schema.PostgreSQLBackend) },
			expectError: true,
		},
		{
			name: "mysql backend with connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.MySQLBackend)
				in.CacheDBConnect = "user:pass@tcp(localhost:3306)/funcspot"
			},
		},
		{
			name:   "none backend",
			mutate: func(in *ConfigRawInput) { in.CacheBackend = string(schema.NoneBackend) },
		},
		{
			name: "cache and analysis sharing the default sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.AnalysisBackend = string(schema.SQLiteBackend)
				in.CacheDBConnect = GetAnalysisDBFilePath() // collides with the analysis default
			},
			expectError: true,
		},
		{
			name:   "cache and analysis on distinct sqlite files",
			mutate: func(in *ConfigRawInput) { in.AnalysisBackend = string(schema.SQLiteBackend) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := baseInput()
			if tt.mutate != nil {
				tt.mutate(input)
			}

			// Invalid inputs fail validation before any git call happens,
			// so only the passing cases expect a repo root lookup.
			mockClient := new(MockGitClient)
			if !tt.expectError {
				workDir, err := filepath.Abs(".")
				require.NoError(t, err)
				mockClient.On("GetRepoRoot", context.Background(), workDir).Return("/mock/repo/root", nil)
			}

			cfg := &Config{}
			err := ProcessAndValidate(context.Background(), cfg, mockClient, input)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, input.Total, cfg.Total)
			assert.Equal(t, schema.OutputMode(input.Output), cfg.Output)
			if tt.check != nil {
				tt.check(t, cfg)
			}
			mockClient.AssertExpectations(t)
		})
	}
}

func TestProcessAndValidate_ImplicitPrefix(t *testing.T) {
	ctx := context.Background()

	// Lay out a fake repo root with a nested package directory.
	repoRoot := t.TempDir()
	subDir := filepath.Join(repoRoot, "internal", "core")
	require.NoError(t, os.MkdirAll(subDir, 0o755))

	t.Run("subdirectory argument becomes the prefix", func(t *testing.T) {
		mockClient := new(MockGitClient)
		mockClient.On("GetRepoRoot", ctx, subDir).Return(repoRoot, nil)

		cfg := &Config{}
		input := &ConfigRawInput{
			Total:        10,
			Workers:      4,
			Output:       "text",
			Color:        "yes",
			CacheBackend: string(schema.SQLiteBackend),
			RepoPathStr:  subDir,
		}
		require.NoError(t, ProcessAndValidate(ctx, cfg, mockClient, input))

		assert.Equal(t, repoRoot, cfg.RepoPath)
		assert.Equal(t, "internal/core/", cfg.PathPrefix)
		mockClient.AssertExpectations(t)
	})

	t.Run("explicit prefix flag wins", func(t *testing.T) {
		mockClient := new(MockGitClient)
		mockClient.On("GetRepoRoot", ctx, subDir).Return(repoRoot, nil)

		cfg := &Config{}
		input := &ConfigRawInput{
			Total:        10,
			Workers:      4,
			Output:       "text",
			Color:        "yes",
			CacheBackend: string(schema.SQLiteBackend),
			RepoPathStr:  subDir,
			Prefix:       "pkg/",
		}
		require.NoError(t, ProcessAndValidate(ctx, cfg, mockClient, input))

		assert.Equal(t, "pkg/", cfg.PathPrefix)
		mockClient.AssertExpectations(t)
	})

	t.Run("repo root argument leaves the prefix empty", func(t *testing.T) {
		mockClient := new(MockGitClient)
		mockClient.On("GetRepoRoot", ctx, repoRoot).Return(repoRoot, nil)

		cfg := &Config{}
		input := &ConfigRawInput{
			Total:        10,
			Workers:      4,
			Output:       "text",
			Color:        "yes",
			CacheBackend: string(schema.SQLiteBackend),
			RepoPathStr:  repoRoot,
		}
		require.NoError(t, ProcessAndValidate(ctx, cfg, mockClient, input))

		assert.Empty(t, cfg.PathPrefix)
		mockClient.AssertExpectations(t)
	})
}

func TestConfigClone(t *testing.T) {
	original := &Config{
		RepoPath:   "/repo",
		PathPrefix: "internal/",
		Excludes:   []string{"vendor/", "target/"},
		Languages:  []schema.Language{schema.GoLang, schema.LuaLang},
		Total:      25,
		Workers:    8,
	}

	clone := original.Clone()
	require.NotSame(t, original, clone)

	// Mutating the clone's slices must not leak back into the original.
	clone.Excludes[0] = "dist/"
	clone.Languages[0] = schema.RustLang

	assert.Equal(t, "vendor/", original.Excludes[0])
	assert.Equal(t, schema.GoLang, original.Languages[0])
	assert.Equal(t, original.Total, clone.Total)
}

func TestConfigLanguageSet(t *testing.T) {
	cfg := &Config{Languages: []schema.Language{schema.GoLang, schema.RustLang}}
	set := cfg.LanguageSet()

	assert.Len(t, set, 2)
	assert.Contains(t, set, schema.GoLang)
	assert.Contains(t, set, schema.RustLang)
	assert.NotContains(t, set, schema.LuaLang)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite accepts empty", schema.SQLiteBackend, "", false},
		{"none accepts empty", schema.NoneBackend, "", false},
		{"mysql requires connection string", schema.MySQLBackend, "", true},
		{"mysql rejects missing tcp host", schema.MySQLBackend, "user:pass/funcspot", true},
		{"mysql accepts full dsn", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/funcspot", false},
		{"postgresql requires connection string", schema.PostgreSQLBackend, "", true},
		{"postgresql rejects missing host", schema.PostgreSQLBackend, "dbname=funcspot", true},
		{"postgresql rejects missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgresql accepts full dsn", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=funcspot", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRevalidateCompare(t *testing.T) {
	t.Run("missing base ref", func(t *testing.T) {
		cfg := &Config{}
		assert.Error(t, RevalidateCompare(cfg))
	})

	t.Run("defaults target ref", func(t *testing.T) {
		cfg := &Config{BaseRef: "v1.2.0"}
		require.NoError(t, RevalidateCompare(cfg))
		assert.Equal(t, "HEAD", cfg.TargetRef)
		assert.True(t, cfg.CompareMode)
	})
}
