package outwriter

import (
	"testing"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
	"github.com/stretchr/testify/assert"
)

func TestRepoDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		repoPath string
		expected string
	}{
		{
			name:     "full path uses base name",
			repoPath: "/home/user/projects/funcspot",
			expected: "funcspot",
		},
		{
			name:     "dot path falls back",
			repoPath: ".",
			expected: "current",
		},
		{
			name:     "empty path falls back",
			repoPath: "",
			expected: "current",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{RepoPath: tt.repoPath}
			assert.Equal(t, tt.expected, repoDisplayName(cfg))
		})
	}
}

func TestLanguageList(t *testing.T) {
	cfg := &contract.Config{Languages: []schema.Language{schema.GoLang, schema.RustLang}}
	assert.Equal(t, "go, rust", languageList(cfg))

	cfg = &contract.Config{Languages: []schema.Language{schema.LuaLang}}
	assert.Equal(t, "lua", languageList(cfg))
}
