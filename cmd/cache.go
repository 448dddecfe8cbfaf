package cmd

import (
	"fmt"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/internal/iocache"
	"github.com/huangsam/funcspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads just the configuration the cache subcommands need,
// skipping the repo and walk setup of the ranking commands.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// No analysis tracking for cache commands, only the walk cache
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: cache subcommands run cacheSetup rather than the full sharedSetup
// the ranking commands use, so they work outside a Git repo and skip the
// walk-related flag processing.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the per-file walk cache (improves performance)",
	Long: `Manage the cache of per-file history walks that speeds up repeated runs.

Funcspot caches the outcome of each file's history walk keyed by the
file's newest commit, so re-runs only re-walk files whose tip moved. On
large repositories this turns minutes into seconds.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  funcspot cache status

  # Clear cache after major repository changes
  funcspot cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached per-file walk data",
	Long: `Delete all cached per-file history walks from the configured backend.

Typical reasons to clear:
- Repository history was rewritten (rebase, force push)
- A release changed span extraction, so old walks no longer match
- Measuring cold-cache performance

SQLite removes the database file; MySQL and PostgreSQL drop the
cache table.

Examples:
  # Clear SQLite cache (default)
  funcspot cache clear

  # Clear MySQL cache (set connection string via env variable)
  FUNCSPOT_CACHE_BACKEND=mysql FUNCSPOT_CACHE_DB_CONNECT="..." funcspot cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Report on the per-file walk cache.

Shows the backend in use and whether it is reachable, how many walks
are cached, the newest and oldest entry timestamps, and the size of
the cache table.

Handy for confirming the cache is connected, watching it grow, and
debugging stale-entry suspicions.

Examples:
  # Check cache status
  funcspot cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetActivityStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
