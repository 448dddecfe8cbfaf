package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Heat label constants.
const (
	CriticalValue = "Critical" // Critical value
	HighValue     = "High"     // High value
	ModerateValue = "Moderate" // Moderate value
	LowValue      = "Low"      // Low value
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // danger
	HighColor     = color.New(color.FgMagenta, color.Bold) // strong warning
	ModerateColor = color.New(color.FgYellow)              // caution, not bold
	LowColor      = color.New(color.FgCyan)                // informational
)

// ColorizeHeat applies the console color matching a heat label produced
// by schema.GetHeatLabel. Unknown labels pass through unchanged.
func ColorizeHeat(label string) string {
	switch label {
	case CriticalValue:
		return CriticalColor.Sprint(label)
	case HighValue:
		return HighColor.Sprint(label)
	case ModerateValue:
		return ModerateColor.Sprint(label)
	case LowValue:
		return LowColor.Sprint(label)
	default:
		return label
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore reports whether path matches any exclude pattern. Patterns
// with wildcard characters (*, ?, [ ]) go through filepath.Match against
// the full path and the base name, so "*_gen.go" works anywhere in the
// tree. Otherwise a trailing '/' means prefix match, a leading '.' means
// extension match, and anything else is a substring match.
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[") || strings.Contains(ex, "**") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, path); err == nil && ok {
				return true
			}
			if ok, err := filepath.Match(pat, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".funcspot_cache.db"
	}
	return filepath.Join(homeDir, ".funcspot_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".funcspot_analysis.db"
	}
	return filepath.Join(homeDir, ".funcspot_analysis.db")
}

// TruncatePath shortens a path to maxWidth runes, keeping the tail behind
// an ellipsis prefix. Widths of 3 or less leave the path untouched since
// there would be no room for content after the "...".
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString reads the yes/no vocabulary of the --color flag:
// "yes", "no", "true", "false", "1", "0", case-insensitive.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
