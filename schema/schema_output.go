package schema

// EnrichedFuncResult adds presentation data to a FuncRecord.
type EnrichedFuncResult struct {
	Rank int    `json:"rank"`
	Heat string `json:"heat"`
	FuncRecord
}

// EnrichedFileRollup adds presentation data to a FileRollup.
type EnrichedFileRollup struct {
	Rank int    `json:"rank"`
	Heat string `json:"heat"`
	FileRollup
}

// GetHeatLabel returns a plain text label for a commit count relative to
// the highest count in the same result set.
func GetHeatLabel(commits, maxCommits int) string {
	if maxCommits <= 0 {
		return "Low"
	}
	pct := float64(commits) / float64(maxCommits) * 100
	switch {
	case pct >= 80:
		return "Critical"
	case pct >= 60:
		return "High"
	case pct >= 40:
		return "Moderate"
	default:
		return "Low"
	}
}

// EnrichFuncs adds rank and heat label to a list of function records.
// Records are assumed to be ranked already, so the first entry carries
// the highest commit count.
func EnrichFuncs(funcs []FuncRecord) []EnrichedFuncResult {
	maxCommits := 0
	if len(funcs) > 0 {
		maxCommits = funcs[0].Commits
	}
	output := make([]EnrichedFuncResult, len(funcs))
	for i, f := range funcs {
		output[i] = EnrichedFuncResult{
			Rank:       i + 1,
			Heat:       GetHeatLabel(f.Commits, maxCommits),
			FuncRecord: f,
		}
	}
	return output
}

// EnrichRollups adds rank and heat label to a list of file rollups.
func EnrichRollups(rollups []FileRollup) []EnrichedFileRollup {
	maxTouches := 0
	if len(rollups) > 0 {
		maxTouches = rollups[0].Touches
	}
	output := make([]EnrichedFileRollup, len(rollups))
	for i, r := range rollups {
		output[i] = EnrichedFileRollup{
			Rank:       i + 1,
			Heat:       GetHeatLabel(r.Touches, maxTouches),
			FileRollup: r,
		}
	}
	return output
}
