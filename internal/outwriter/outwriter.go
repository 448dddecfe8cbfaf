// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/huangsam/funcspot/internal/contract"
)

// LogAnalysisHeader prints a concise, 2-line header for each analysis phase.
func LogAnalysisHeader(cfg *contract.Config) {
	fmt.Printf("🔎 Repo: %s (Languages: %s)\n", repoDisplayName(cfg), languageList(cfg))

	// Line 2: The scope actually being walked
	scope := cfg.PathPrefix
	if scope == "" {
		scope = "entire tree"
	}
	fmt.Printf("📂 Scope: %s\n", scope)
}

// LogCompareHeader prints a header for comparison analysis.
func LogCompareHeader(cfg *contract.Config) {
	fmt.Printf("🔎 Repo: %s (Languages: %s)\n", repoDisplayName(cfg), languageList(cfg))
	fmt.Printf("📊 Comparing: %s ↔ %s\n", cfg.BaseRef, cfg.TargetRef)
}

// repoDisplayName shortens the repo path to its base name for headers.
func repoDisplayName(cfg *contract.Config) string {
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}
	return repoName
}

// languageList renders the configured languages for headers.
func languageList(cfg *contract.Config) string {
	names := make([]string, len(cfg.Languages))
	for i, language := range cfg.Languages {
		names[i] = string(language)
	}
	return strings.Join(names, ", ")
}
