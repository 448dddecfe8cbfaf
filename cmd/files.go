package cmd

import (
	"github.com/huangsam/funcspot/core"
	"github.com/huangsam/funcspot/internal/contract"
	"github.com/spf13/cobra"
)

// filesCmd rolls function-level activity up to the defining files.
var filesCmd = &cobra.Command{
	Use:   "files [repo-path]",
	Short: "Show files ranked by the summed activity of their functions.",
	Long: `Run the same function-level analysis as 'funcs', then sum the per-function
commit counts for each defining file.

A file ranks high when its functions collectively absorb many commits,
whether that is one giant function changing constantly or a dozen helpers
changing now and then. File-level churn outside functions still counts for
nothing, so the rollup stays a function-activity view, not a line-activity
view.

Use this to:
- Pick which file to read first when taking over unfamiliar code
- Compare hotspots across modules at a glance
- Decide where a file split would pay off most

Examples:
  # Top 50 files by summed function activity
  funcspot files

  # Focus on one subsystem
  funcspot files --prefix internal/server/

  # Export for dashboards
  funcspot files --output parquet --output-file files.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFileRollup(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run files analysis", err)
		}
	},
}
