package cmd

import (
	"fmt"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/internal/iocache"
	"github.com/huangsam/funcspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resolveAnalysisBackend reads the tracking backend and connection string
// from config. An empty backend setting means tracking is off.
func resolveAnalysisBackend() (schema.DatabaseBackend, string, error) {
	backend := schema.DatabaseBackend(viper.GetString("analysis-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	connStr := viper.GetString("analysis-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// analysisSetup loads just the configuration the analysis subcommands
// need, skipping the repo and walk setup of the ranking commands.
func analysisSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := resolveAnalysisBackend()
	if err != nil {
		return err
	}

	// No walk cache for analysis commands, only the tracking store
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	// The export subcommand reads the output file
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// analysisSetupWrapper wraps analysisSetup to provide PreRunE for analysis commands.
func analysisSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisSetup()
}

// analysisMigrateSetup resolves backend config without opening stores
// or creating tables, so migrations can run against a fresh database.
func analysisMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := resolveAnalysisBackend()
	if err != nil {
		return err
	}

	// SQLite with no connection string falls back to the default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAnalysisDBFilePath()
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr

	return nil
}

// analysisMigrateSetupWrapper wraps analysisMigrateSetup to provide PreRunE for migrate command.
func analysisMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisMigrateSetup()
}

// analysisCmd focused on analysis data management.
//
// Note: analysis subcommands run analysisSetup rather than the full
// sharedSetup the ranking commands use, so they work outside a Git repo
// and skip the walk-related flag processing.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage historical analysis tracking and exports",
	Long: `Manage the historical record of analysis runs.

When tracking is enabled, every run stores its metadata (timestamp,
configuration, duration) together with the commit counts of that run's
top-ranked functions, including each function's file, start line and
language. Accumulated runs feed trend reporting and BI exports.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show analysis tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  funcspot analysis status

  # Export for analysis in pandas/DuckDB
  funcspot analysis export --output-file analysis-data.parquet`,
}

// analysisClearCmd clears the analysis data.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical analysis tracking data",
	Long: `Delete every stored analysis run and its function count history.

Removed data:
- Run metadata for all recorded analyses
- Per-function commit counts from those runs
- The file and language context of each tracked function

This cannot be undone, so export first if the history matters.

Typical reasons to clear:
- Restarting trend tracking from a clean slate
- Reclaiming database storage
- Wiping test data

Examples:
  # Export before clearing
  funcspot analysis export --output-file backup.parquet
  funcspot analysis clear`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, contract.GetAnalysisDBFilePath(), cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// analysisStatusCmd shows analysis status.
var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display analysis tracking statistics and connection details",
	Long: `Report on the analysis tracking store.

Shows the backend in use and whether it is reachable, how many runs
have been recorded, the newest and oldest run timestamps, how many
per-function rows those runs left behind, and table sizes.

Handy for confirming that tracking is enabled, watching the store
grow over time, and estimating storage needs.

Examples:
  # Check analysis tracking status
  funcspot analysis status`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetAnalysisStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get analysis status", err)
		}
		iocache.PrintAnalysisStatus(status)
	},
}

// analysisExportCmd exports analysis data to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical data to Parquet for BI tools and analytics",
	Long: `Export stored analysis data to Parquet files.

Two datasets are written:
- Analysis runs: one row per recorded run with its configuration
- Function counts: one row per tracked function per run

Parquet loads directly into DuckDB, pandas, Spark and most BI tools,
and its columnar compression keeps long histories small. Typical uses
are churn trend dashboards and offline analysis of per-function
activity.

Requires: --output-file parameter

Examples:
  # Export all data
  funcspot analysis export --output-file funcspot-data.parquet

  # Use with DuckDB for analysis
  funcspot analysis export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet.function_counts.parquet') LIMIT 10"`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAnalysisExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// analysisMigrateCmd runs database migrations for the analysis store.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Apply schema migrations to the analysis tracking store.

Without flags this migrates to the newest schema version, which is
what a Funcspot upgrade normally needs. Pass --target-version to pin
a specific version instead, including an older one to roll a schema
change back. Stored data survives upgrades.

Examples:
  # Migrate to latest version (default)
  funcspot analysis migrate

  # Migrate to specific version
  funcspot analysis migrate --target-version 2

  # Rollback to previous version
  funcspot analysis migrate --target-version 0`,
	PreRunE: analysisMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateAnalysis(cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
