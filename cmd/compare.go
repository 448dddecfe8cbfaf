package cmd

import (
	"errors"

	"github.com/huangsam/funcspot/core"
	"github.com/huangsam/funcspot/internal/contract"
	"github.com/spf13/cobra"
)

// compareCmd focused on per-function deltas between two refs.
var compareCmd = &cobra.Command{
	Use:   "compare [repo-path]",
	Short: "Compare per-function commit counts between two Git references.",
	Long: `Run the function-level analysis twice, bounded by --base-ref and
--target-ref, and report how each function's distinct-commit count moved
between the two points.

The report classifies every function as new, removed, changed or stable,
sorted by the size of the delta. Renamed functions show up as a removal
plus a new entry: identity follows the qualified name, not the body.

Ideal for:
- Release audits - which functions absorbed the work between versions
- Refactoring validation - confirm a split actually cooled a hotspot
- Sprint reviews - see where the effort concentrated

Examples:
  # Compare function activity between releases
  funcspot compare --base-ref v1.0.0 --target-ref v1.1.0

  # Target defaults to HEAD
  funcspot compare --base-ref origin/main

  # Export the deltas for tracking
  funcspot compare --base-ref v1.0.0 --output csv --output-file deltas.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if !cfg.CompareMode {
			contract.LogFatal("Cannot run compare analysis", errors.New("base and target refs must be provided"))
		}
		if err := core.ExecuteFuncCompare(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run compare analysis", err)
		}
	},
}
