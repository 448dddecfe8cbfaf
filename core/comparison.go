package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
)

// funcKey identifies one function across two analysis runs.
type funcKey struct {
	path string
	name string
}

// GetFuncCompareResults runs the full analysis at both refs and returns
// the per-function deltas. It is the entry point shared by the CLI and
// the MCP server.
func GetFuncCompareResults(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (schema.ComparisonResult, error) {
	baseRecords, _, err := runAnalysisAtRef(ctx, cfg, client, mgr, cfg.BaseRef)
	if err != nil {
		return schema.ComparisonResult{}, fmt.Errorf("analysis failed for base ref %s: %w", cfg.BaseRef, err)
	}
	targetRecords, _, err := runAnalysisAtRef(ctx, cfg, client, mgr, cfg.TargetRef)
	if err != nil {
		return schema.ComparisonResult{}, fmt.Errorf("analysis failed for target ref %s: %w", cfg.TargetRef, err)
	}

	result := CompareFuncCounts(baseRecords, targetRecords, cfg.Total)
	result.BaseRef = cfg.BaseRef
	result.TargetRef = cfg.TargetRef
	return result, nil
}

// CompareFuncCounts matches per-function counts from the base run
// against the target run and computes the count delta for every identity
// seen on either side. Stable functions are omitted from the details but
// still feed the summary.
func CompareFuncCounts(baseRecords, targetRecords []schema.FuncRecord, limit int) schema.ComparisonResult {
	baseMap := make(map[funcKey]schema.FuncRecord, len(baseRecords))
	targetMap := make(map[funcKey]schema.FuncRecord, len(targetRecords))
	allKeys := make(map[funcKey]struct{})

	// 1. Populate maps and collect all identities
	for _, r := range baseRecords {
		key := funcKey{path: r.Path, name: r.Name}
		baseMap[key] = r
		allKeys[key] = struct{}{}
	}
	for _, r := range targetRecords {
		key := funcKey{path: r.Path, name: r.Name}
		targetMap[key] = r
		allKeys[key] = struct{}{}
	}

	details := make([]schema.FuncComparison, 0, len(allKeys))
	var summary schema.ComparisonSummary

	// 2. Compare all identities
	for key := range allKeys {
		baseR, baseExists := baseMap[key]
		targetR, targetExists := targetMap[key]

		before := 0
		if baseExists {
			before = baseR.Commits
		}
		after := 0
		if targetExists {
			after = targetR.Commits
		}
		delta := after - before

		status := determineStatus(baseExists, targetExists, delta)
		switch status {
		case schema.NewStatus:
			summary.TotalNewFuncs++
		case schema.RemovedStatus:
			summary.TotalRemovedFuncs++
		case schema.ChangedStatus:
			summary.TotalChangedFuncs++
		}
		summary.NetDeltaCommits += delta

		// Stable functions carry no signal for the reader
		if status == schema.StableStatus {
			continue
		}

		details = append(details, schema.FuncComparison{
			Path:          key.path,
			Name:          key.name,
			BeforeCommits: before,
			AfterCommits:  after,
			DeltaCommits:  delta,
			Status:        status,
		})
	}

	// 3. Sort and bound the details
	sortComparisons(details)
	if limit > 0 && len(details) > limit {
		details = details[:limit]
	}

	return schema.ComparisonResult{Details: details, Summary: summary}
}

// determineStatus classifies one identity's movement between the runs.
func determineStatus(baseExists, targetExists bool, delta int) schema.Status {
	switch {
	case !baseExists && targetExists:
		return schema.NewStatus
	case baseExists && !targetExists:
		return schema.RemovedStatus
	case delta != 0:
		return schema.ChangedStatus
	default:
		return schema.StableStatus
	}
}

// sortComparisons orders by absolute delta descending, then delta sign
// (positive before negative), then name and path ascending.
func sortComparisons(details []schema.FuncComparison) {
	sort.Slice(details, func(i, j int) bool {
		a, b := details[i], details[j]

		absA := abs(a.DeltaCommits)
		absB := abs(b.DeltaCommits)
		if absA != absB {
			return absA > absB
		}
		if a.DeltaCommits != b.DeltaCommits {
			return a.DeltaCommits > b.DeltaCommits
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Path < b.Path
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
