package core

import (
	"sort"
	"strings"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
)

// FilterFuncs applies the path and name predicates ahead of ranking and
// pagination: path-prefix keep, path-substring drop (invert match) and
// function-name substring drop.
func FilterFuncs(records []schema.FuncRecord, cfg *contract.Config) []schema.FuncRecord {
	filtered := make([]schema.FuncRecord, 0, len(records))
	for _, r := range records {
		if cfg.PathPrefix != "" && !strings.HasPrefix(r.Path, cfg.PathPrefix) {
			continue
		}
		if cfg.InvertMatch != "" && strings.Contains(r.Path, cfg.InvertMatch) {
			continue
		}
		if cfg.ExcludeFunc != "" && strings.Contains(r.Name, cfg.ExcludeFunc) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// RankFuncs sorts records by commit count in descending order. Ties
// break by name, then path, both ascending, so ranking stays
// deterministic across runs.
func RankFuncs(records []schema.FuncRecord) []schema.FuncRecord {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Commits != b.Commits {
			return a.Commits > b.Commits
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Path < b.Path
	})
	return records
}

// Paginate returns the contiguous page [skip, skip+total) of the ranked
// items. A skip beyond the end yields an empty page, never an error.
func Paginate[T any](items []T, skip, total int) []T {
	if skip >= len(items) {
		return []T{}
	}
	return items[skip:min(skip+total, len(items))]
}

// RollupFiles sums function-level activity per defining file.
func RollupFiles(records []schema.FuncRecord) []schema.FileRollup {
	byPath := make(map[string]*schema.FileRollup)
	for _, r := range records {
		rollup, ok := byPath[r.Path]
		if !ok {
			rollup = &schema.FileRollup{Path: r.Path}
			byPath[r.Path] = rollup
		}
		rollup.Funcs++
		rollup.Touches += r.Commits
	}

	rollups := make([]schema.FileRollup, 0, len(byPath))
	for _, rollup := range byPath {
		rollups = append(rollups, *rollup)
	}
	return rollups
}

// RankRollups sorts rollups by total touches descending, ties broken by
// path ascending.
func RankRollups(rollups []schema.FileRollup) []schema.FileRollup {
	sort.Slice(rollups, func(i, j int) bool {
		a, b := rollups[i], rollups[j]
		if a.Touches != b.Touches {
			return a.Touches > b.Touches
		}
		return a.Path < b.Path
	})
	return rollups
}
