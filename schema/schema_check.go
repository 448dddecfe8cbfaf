package schema

// CheckResult holds the outcome of a CI gate run against the ranked
// function counts.
type CheckResult struct {
	Passed    bool         `json:"passed"`
	MaxCount  int          `json:"max_count"` // Highest allowed per-function commit count
	Offenders []FuncRecord `json:"offenders"` // Functions over the threshold, ranked
}
