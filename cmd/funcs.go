package cmd

import (
	"github.com/huangsam/funcspot/core"
	"github.com/huangsam/funcspot/internal/contract"
	"github.com/spf13/cobra"
)

// funcsCmd performs function-level hotspot analysis.
var funcsCmd = &cobra.Command{
	Use:   "funcs [repo-path]",
	Short: "Show the top functions ranked by distinct-commit change count.",
	Long: `Walk each file's Git history, re-parse every touched revision, and rank
functions by how many distinct commits changed their definitions.

Counting is commit-level: a commit that touches one function through many
hunks counts once, and a change inside a nested function credits only that
inner function. Lines changed outside every function (imports, comments,
file-level code) count for nothing.

Use this to:
- Find functions that keep absorbing changes and probably want splitting
- Pick refactoring targets with evidence instead of instinct
- See which helpers quietly became load-bearing

Examples:
  # Top 50 functions in the current repository
  funcspot funcs

  # Only functions defined under internal/, skipping generated files
  funcspot funcs --prefix internal/ --exclude "*_gen.go"

  # Hide test churn and page through the ranking
  funcspot funcs --invert-match _test --total 20 --skip 20

  # Only the Rust side of a mixed tree
  funcspot funcs --languages rust

  # Export findings to CSV for tracking
  funcspot funcs --output csv --output-file hotspots.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFuncHotspots(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run funcs analysis", err)
		}
	},
}
