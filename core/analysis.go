package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/internal/lang"
	"github.com/huangsam/funcspot/schema"
)

// GetFuncHotspotResults runs the full pipeline against HEAD and returns
// the ranked, filtered, paginated records plus the run stats. It is the
// single entry point shared by the CLI and the MCP server.
func GetFuncHotspotResults(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.FuncRecord, *schema.RunStats, error) {
	start := time.Now()

	// --- 0. Begin Analysis Tracking (if configured) ---
	var analysisID int64
	analysisStore := mgr.GetAnalysisStore()
	if analysisStore != nil {
		configParams := map[string]any{
			"repo_path": cfg.RepoPath,
			"languages": languageNames(cfg.Languages),
			"workers":   cfg.Workers,
			"total":     cfg.Total,
			"skip":      cfg.Skip,
			"prefix":    cfg.PathPrefix,
		}
		var err error
		analysisID, err = analysisStore.BeginAnalysis(start, configParams)
		if err != nil {
			contract.LogWarn("Analysis tracking initialization failed", err)
		}
	}

	// --- 1. History Correlation ---
	ranked, stats, err := runAnalysisAtRef(ctx, cfg, client, mgr, "HEAD")
	if err != nil {
		return nil, nil, err
	}
	if err := requireAnalyzedFiles(stats); err != nil {
		return nil, nil, err
	}

	// --- 2. Pagination ---
	page := Paginate(ranked, cfg.Skip, cfg.Total)
	stats.Duration = time.Since(start)

	// --- 3. End Analysis Tracking ---
	if analysisStore != nil && analysisID > 0 {
		now := time.Now()
		if err := analysisStore.EndAnalysis(analysisID, now, stats.FilesAnalyzed); err != nil {
			contract.LogWarn("Failed to finalize analysis tracking", err)
		}
		if err := analysisStore.RecordFunctionCounts(analysisID, now, page); err != nil {
			contract.LogWarn("Failed to record function counts", err)
		}
	}

	return page, stats, nil
}

// runAnalysisAtRef walks every discovered file's history bounded by ref
// and reduces the per-file outcomes into one ranked, filtered record
// set. Pagination is left to the caller so comparisons can diff complete
// sets.
func runAnalysisAtRef(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, ref string) ([]schema.FuncRecord, *schema.RunStats, error) {
	files, err := discoverFiles(ctx, cfg, client, ref)
	if err != nil {
		return nil, nil, err
	}

	parsers, err := lang.Registry(cfg.Languages)
	if err != nil {
		return nil, nil, fmt.Errorf("span extraction unavailable: %w", err)
	}

	outcomes := analyzeRepo(ctx, cfg, client, mgr, parsers, files, ref)

	// A cancelled run yields no output at all: partial counts would
	// silently understate activity and mislead ranking decisions.
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	records, stats := reduceOutcomes(cfg, outcomes)
	records = FilterFuncs(records, cfg)
	records = RankFuncs(records)
	stats.TotalMatched = len(records)
	return records, stats, nil
}

// discoverFiles lists the tracked files at ref that the run should walk.
// Path predicates are pushed down here so filtered-out files are never
// walked; the final record set applies them again.
func discoverFiles(ctx context.Context, cfg *contract.Config, client contract.GitClient, ref string) ([]string, error) {
	files, err := client.ListFilesAtRef(ctx, cfg.RepoPath, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list files at ref %s: %w", ref, err)
	}

	wanted := cfg.LanguageSet()
	filtered := make([]string, 0, len(files))
	for _, f := range files {
		language, ok := lang.Detect(f)
		if !ok {
			continue
		}
		if _, want := wanted[language]; !want {
			continue
		}
		if isHiddenPath(f) {
			continue
		}
		if cfg.PathPrefix != "" && !strings.HasPrefix(f, cfg.PathPrefix) {
			continue
		}
		if cfg.InvertMatch != "" && strings.Contains(f, cfg.InvertMatch) {
			continue
		}
		if contract.ShouldIgnore(f, cfg.Excludes) {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered, nil
}

// isHiddenPath reports whether any path segment is dot-prefixed, e.g.
// hook sources under .github or editor state under .vscode.
func isHiddenPath(path string) bool {
	for part := range strings.SplitSeq(path, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// fileOutcome pairs one file's walk result with its cache disposition.
type fileOutcome struct {
	result schema.FileFuncResult
	cached bool
}

// analyzeRepo processes all files in parallel using a worker pool.
// It spawns cfg.Workers goroutines to walk file histories concurrently
// and fans the per-file outcomes back into a single slice.
func analyzeRepo(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, parsers map[schema.Language]contract.FuncParser, files []string, ref string) []fileOutcome {
	fileCh := make(chan string, len(files))
	resultCh := make(chan fileOutcome, len(files))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for f := range fileCh {
				// Drain without walking once the run is cancelled
				if ctx.Err() != nil {
					continue
				}
				language, _ := lang.Detect(f)
				parser, ok := parsers[language]
				if !ok {
					continue
				}
				result, cached := cachedCorrelateFile(ctx, cfg, client, parser, mgr, f, ref)
				resultCh <- fileOutcome{result: result, cached: cached}
			}
		})
	}

	// Send files to worker channel
	for _, f := range files {
		fileCh <- f
	}
	close(fileCh)

	// Wait for all workers to finish processing
	wg.Wait()
	close(resultCh)

	outcomes := make([]fileOutcome, 0, len(files))
	for outcome := range resultCh {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// reduceOutcomes is the single-writer reduction of the fan-out phase.
// Files whose walk failed are skipped with a warning; their count stays
// visible in the stats instead of silently vanishing.
func reduceOutcomes(cfg *contract.Config, outcomes []fileOutcome) ([]schema.FuncRecord, *schema.RunStats) {
	stats := &schema.RunStats{
		Workers:      cfg.Workers,
		CacheBackend: cfg.CacheBackend,
	}
	var records []schema.FuncRecord
	for _, outcome := range outcomes {
		result := outcome.result
		if result.Err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping %s after history failure", result.Path), result.Err)
			stats.FilesSkipped++
			continue
		}
		if outcome.cached {
			stats.CacheHits++
		}
		stats.FilesAnalyzed++
		stats.CommitsWalked += result.CommitsWalked
		stats.CommitsSkipped += result.CommitsSkipped
		stats.DegradedParses += result.DegradedParses
		records = append(records, result.Funcs...)
	}
	return records, stats
}

// requireAnalyzedFiles turns an empty discovery into a configuration
// error: a run that saw no source files cannot rank anything meaningful.
func requireAnalyzedFiles(stats *schema.RunStats) error {
	if stats.FilesAnalyzed == 0 && stats.FilesSkipped == 0 {
		return errors.New("no matching source files found")
	}
	return nil
}

// languageNames renders the configured languages for tracking params.
func languageNames(languages []schema.Language) string {
	names := make([]string, len(languages))
	for i, language := range languages {
		names[i] = string(language)
	}
	return strings.Join(names, ",")
}
