package schema

// FuncComparison holds the before/after commit counts for one function
// identity across the base and target refs.
type FuncComparison struct {
	Path          string `json:"path"`           // Relative path to the defining file
	Name          string `json:"name"`           // Scope-qualified function name
	BeforeCommits int    `json:"before_commits"` // Count from the base ref walk
	AfterCommits  int    `json:"after_commits"`  // Count from the target ref walk
	DeltaCommits  int    `json:"delta_commits"`  // After - Before (positive means more activity)
	Status        Status `json:"status"`         // new, removed, changed or stable
}

// ComparisonSummary has high-level deltas and counts.
type ComparisonSummary struct {
	NetDeltaCommits   int `json:"net_delta_commits"`
	TotalNewFuncs     int `json:"total_new_funcs"`
	TotalRemovedFuncs int `json:"total_removed_funcs"`
	TotalChangedFuncs int `json:"total_changed_funcs"`
}

// ComparisonResult holds the comparison details and summary.
type ComparisonResult struct {
	BaseRef   string            `json:"base_ref"`
	TargetRef string            `json:"target_ref"`
	Details   []FuncComparison  `json:"details"`
	Summary   ComparisonSummary `json:"summary"`
}
