// Package schema has configs, models and constants for all parts of funcspot.
package schema

import "time"

// FunctionSpan is one function definition located in one parsed revision
// of a file. Line bounds are 1-based and inclusive. Spans from a single
// parse are either disjoint or fully nested; Depth is 0 for top-level
// definitions and grows by one per enclosing function.
type FunctionSpan struct {
	Name      string `json:"name"`       // Scope-qualified function name
	StartLine int    `json:"start_line"` // First line of the definition
	EndLine   int    `json:"end_line"`   // Last line of the definition
	Depth     int    `json:"depth"`      // Nesting depth below file scope
}

// Contains reports whether the given 1-based line falls inside the span.
func (s FunctionSpan) Contains(line int) bool {
	return line >= s.StartLine && line <= s.EndLine
}

// FuncRecord is the aggregated change history for one function. Identity
// is the (Path, Name) pair; Commits counts the distinct commits whose
// diff overlapped the function's definition.
type FuncRecord struct {
	Path     string   `json:"path"`     // Relative path of the defining file
	Name     string   `json:"name"`     // Scope-qualified function name
	Line     int      `json:"line"`     // Start line in the newest revision seen
	Language Language `json:"language"` // Grammar the definition was parsed with
	Commits  int      `json:"commits"`  // Distinct commits touching the definition
}

// FileFuncResult is the outcome of walking one file's commit history.
// It is the unit of work exchanged with the worker pool and the unit of
// value stored in the activity cache.
type FileFuncResult struct {
	Path           string       `json:"path"`
	Funcs          []FuncRecord `json:"funcs"`
	CommitsWalked  int          `json:"commits_walked"`
	CommitsSkipped int          `json:"commits_skipped"`
	DegradedParses int          `json:"degraded_parses"`

	// Err marks a per-file history failure. The file is skipped with a
	// warning and the run continues; Err never reaches the cache.
	Err error `json:"-"`
}

// FileRollup sums function-level activity per file for the rollup view.
type FileRollup struct {
	Path    string `json:"path"`
	Funcs   int    `json:"funcs"`   // Distinct functions with at least one touch
	Touches int    `json:"touches"` // Sum of per-function commit counts
}

// RunStats summarizes a completed analysis run. Skip counts are reported
// separately from the ranked rows so recoverable errors stay visible.
type RunStats struct {
	FilesAnalyzed  int             `json:"files_analyzed"`
	FilesSkipped   int             `json:"files_skipped"`
	CommitsWalked  int             `json:"commits_walked"`
	CommitsSkipped int             `json:"commits_skipped"`
	DegradedParses int             `json:"degraded_parses"`
	CacheHits      int             `json:"cache_hits"`
	TotalMatched   int             `json:"total_matched"` // Records after filtering, before pagination
	Duration       time.Duration   `json:"duration"`
	Workers        int             `json:"workers"`
	CacheBackend   DatabaseBackend `json:"cache_backend"`
}
