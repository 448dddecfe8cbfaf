package outwriter

import (
	"os"

	"github.com/huangsam/funcspot/internal/contract"
	"golang.org/x/term"
)

// resolveTermWidth returns the width budget for table output, preferring
// the explicit override over terminal detection.
func resolveTermWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}

	// Get terminal width
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxTableFuncWidth calculates the maximum width for function names in
// table output. Names get roughly a third of the row so long scope chains
// don't starve the path column.
func getMaxTableFuncWidth(cfg *contract.Config) int {
	available := resolveTermWidth(cfg) / 3
	if available < 20 {
		// Minimum reasonable name width
		return 20
	}
	if available > 48 {
		// Maximum name width to prevent overly long scope chains
		return 48
	}
	return available
}

// getMaxTablePathWidth calculates the maximum width for file paths in table
// output based on terminal width and table configuration.
func getMaxTablePathWidth(cfg *contract.Config) int {
	termWidth := resolveTermWidth(cfg)

	// Reserve space for fixed columns with table formatting
	baseWidth := 28 // Rank + Line + Commits + Heat with borders/padding

	// Function names occupy their own share of the row
	baseWidth += getMaxTableFuncWidth(cfg)

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 15

	// Calculate available space for path
	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable path width
		return 15
	}
	if available > 70 {
		// Maximum path width to prevent overly long paths
		return 70
	}
	return available
}
