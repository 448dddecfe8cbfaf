package cmd

import (
	"github.com/huangsam/funcspot/core"
	"github.com/huangsam/funcspot/internal/contract"
	"github.com/spf13/cobra"
)

// languagesCmd displays the supported grammars and naming rules.
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "Display the supported grammars and how function names are derived",
	Long: `Show which languages funcspot can parse, the file extensions mapped to
each grammar, which constructs count as functions, and how scope-qualified
names are built for them.

No Git analysis is performed - this is purely informational.

Use this to:
- Check whether your codebase is covered before a run
- Understand why a function appears under a particular name
- Explain anonymous-function labels like func1 or closure#0

Examples:
  # Show the language reference
  funcspot languages

  # Machine-readable form for tooling
  funcspot languages --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLanguageReference(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display languages", err)
		}
	},
}
