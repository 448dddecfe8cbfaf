package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
)

// ExecuteFuncCheck runs the check command for CI gating. The run fails
// when any matched function's distinct-commit count exceeds
// cfg.MaxCount, signalling a function that keeps absorbing changes and
// probably wants splitting up.
func ExecuteFuncCheck(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	client := contract.NewLocalGitClient()

	records, stats, err := runAnalysisAtRef(ctx, cfg, client, mgr, "HEAD")
	if err != nil {
		return err
	}
	if err := requireAnalyzedFiles(stats); err != nil {
		return err
	}

	result := BuildCheckResult(records, cfg.MaxCount)
	printCheckResult(result, records, stats, time.Since(start))

	if !result.Passed {
		return fmt.Errorf("%d function(s) exceed the change threshold", len(result.Offenders))
	}
	return nil
}

// BuildCheckResult collects every function over the threshold. Input
// records arrive ranked, so offenders stay in ranked order.
func BuildCheckResult(records []schema.FuncRecord, maxCount int) *schema.CheckResult {
	offenders := []schema.FuncRecord{}
	for _, r := range records {
		if r.Commits > maxCount {
			offenders = append(offenders, r)
		}
	}
	return &schema.CheckResult{
		Passed:    len(offenders) == 0,
		MaxCount:  maxCount,
		Offenders: offenders,
	}
}

// printCheckResult prints the check outcome in a concise format suitable
// for CI logs.
func printCheckResult(result *schema.CheckResult, records []schema.FuncRecord, stats *schema.RunStats, duration time.Duration) {
	fmt.Println("Function Change Policy Check:")

	// Define labels and values for dynamic padding
	labels := []string{"Max count:", "Files:"}
	values := []any{
		result.MaxCount,
		stats.FilesAnalyzed,
	}

	// Find the longest label for consistent padding
	maxLabelLen := 0
	for _, label := range labels {
		if len(label) > maxLabelLen {
			maxLabelLen = len(label)
		}
	}

	// Print each label-value pair with consistent padding
	for i, label := range labels {
		fmt.Printf("  %-*s %v\n", maxLabelLen+1, label, values[i])
	}
	fmt.Println()

	fmt.Printf("Checked %d functions in %v\n\n", stats.TotalMatched, duration)

	if result.Passed {
		printCheckSuccess(records)
	} else {
		printCheckFailure(result)
	}
}

// printCheckSuccess prints the success case output.
func printCheckSuccess(records []schema.FuncRecord) {
	fmt.Println("All functions within the change threshold")
	if len(records) > 0 {
		top := records[0]
		fmt.Printf("  highest: %s in %s with %d commits\n", top.Name, top.Path, top.Commits)
	}
}

// printCheckFailure prints the failure case output.
func printCheckFailure(result *schema.CheckResult) {
	fmt.Printf("Policy check failed: %d function(s) over max count %d\n\n", len(result.Offenders), result.MaxCount)

	// Show the top violations, with "+X more" if needed
	maxToShow := 5
	for i, offender := range result.Offenders {
		if i >= maxToShow {
			fmt.Printf("  ... and %d more\n", len(result.Offenders)-maxToShow)
			break
		}
		fmt.Printf("  - %s in %s (%d commits > %d)\n", offender.Name, offender.Path, offender.Commits, result.MaxCount)
	}
	fmt.Println()
}
