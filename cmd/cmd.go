// Package cmd defines the command-line interface for funcspot.
package cmd

import (
	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cobra.OnInitialize(initConfig)

	// Primary subcommands
	rootCmd.AddCommand(funcsCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper. Shorthands keep the
	// vocabulary the tool has always used: -t/-s/-p/-v/-F.
	rootCmd.PersistentFlags().IntP("total", "t", contract.DefaultTotal, "Number of results to display")
	rootCmd.PersistentFlags().IntP("skip", "s", 0, "Skip the first n results")
	rootCmd.PersistentFlags().StringP("prefix", "p", "", "Keep only results whose file path starts with this prefix")
	rootCmd.PersistentFlags().StringP("invert-match", "v", "", "Drop results whose file path contains this substring")
	rootCmd.PersistentFlags().StringP("exclude-func", "F", "", "Drop results whose function name contains this substring")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("languages", "", "Comma-separated subset of grammars to analyze: go, rust, lua (default all)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Analysis tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for analysis tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored heat labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("base-ref", "", "Base Git reference for the BEFORE state")
	rootCmd.PersistentFlags().String("target-ref", "", "Target Git reference for the AFTER state")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	checkCmd.Flags().Int("max-count", contract.DefaultMaxCount, "Highest allowed per-function commit count for the gate")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
