package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of funcspot.",
	Long: `Display the release version, the Git commit and timestamp of the
build, and the Go runtime it was compiled with. Include this output
when reporting bugs.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("funcspot CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
	},
}
