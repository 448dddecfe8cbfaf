package schema

import "time"

// CacheStatus describes the activity cache holding per-file walk results.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// AnalysisStatus describes the run-tracking store: how many analyses ran,
// when, and how many per-function rows they left behind.
type AnalysisStatus struct {
	Backend                string           `json:"backend"`
	Connected              bool             `json:"connected"`
	TotalRuns              int              `json:"total_runs"`
	LastRunID              int64            `json:"last_run_id"`
	LastRunTime            time.Time        `json:"last_run_time"`
	OldestRunTime          time.Time        `json:"oldest_run_time"`
	TotalFilesAnalyzed     int              `json:"total_files_analyzed"`
	TotalFunctionsRecorded int              `json:"total_functions_recorded"`
	TableSizes             map[string]int64 `json:"table_sizes"`
}
