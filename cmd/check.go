package cmd

import (
	"github.com/huangsam/funcspot/core"
	"github.com/huangsam/funcspot/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [repo-path]",
	Short: "Enforce a per-function change budget (fails build on violations)",
	Long: `Run the function-level analysis and fail with a non-zero exit code when
any function's distinct-commit count exceeds --max-count.

A function over the budget has absorbed more changes than the policy
allows, which usually means it carries too many responsibilities and is
overdue for splitting. The check lists the offenders so the report is
actionable, not just red.

Use cases:
- Pull request gates - stop hotspots from growing unnoticed
- Release validation - inventory change-heavy functions before shipping
- Tech-debt budgets - agree on a number, let CI hold the line

Examples:
  # Fail when any function was touched by more than 50 commits
  funcspot check

  # Tighter budget for a library that should be settling down
  funcspot check --max-count 20

  # Gate only the core package, ignoring its tests
  funcspot check --prefix core/ --invert-match _test --max-count 30`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFuncCheck(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Policy check failed", err)
		}
	},
}
