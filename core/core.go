// Package core has the history correlation engine: it re-parses file
// revisions into function spans, maps each commit's changed lines onto
// those spans, and ranks functions by how many distinct commits touched
// their definitions.
package core

import (
	"context"
	"time"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/internal/outwriter"
)

// ExecutorFunc defines the function signature for executing different
// analysis commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteFuncHotspots runs the function-level analysis and prints the
// ranked results. It serves as the main entry point for the 'funcs'
// command.
func ExecuteFuncHotspots(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	client := contract.NewLocalGitClient()
	outwriter.LogAnalysisHeader(cfg)
	records, stats, err := GetFuncHotspotResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintFuncResults(records, stats, cfg)
}

// ExecuteFileRollup runs the analysis and aggregates function counts per
// defining file. It serves as the main entry point for the 'files'
// command.
func ExecuteFileRollup(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	client := contract.NewLocalGitClient()
	outwriter.LogAnalysisHeader(cfg)

	records, stats, err := runAnalysisAtRef(ctx, cfg, client, mgr, "HEAD")
	if err != nil {
		return err
	}
	if err := requireAnalyzedFiles(stats); err != nil {
		return err
	}

	rollups := RankRollups(RollupFiles(records))
	stats.TotalMatched = len(rollups)
	page := Paginate(rollups, cfg.Skip, cfg.Total)
	stats.Duration = time.Since(start)
	return outwriter.PrintRollupResults(page, stats, cfg)
}

// ExecuteLanguageReference prints the supported-language reference. No
// Git analysis runs; the display is static.
func ExecuteLanguageReference(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.PrintLanguageReference(cfg)
}

// ExecuteFuncCompare runs two analyses bounded by the base and target
// refs and reports the per-function count deltas between them.
func ExecuteFuncCompare(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	client := contract.NewLocalGitClient()

	// Print single header for the comparison
	outwriter.LogCompareHeader(cfg)

	result, err := GetFuncCompareResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintComparisonResults(result, cfg, duration)
}
