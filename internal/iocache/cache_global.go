package iocache

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
)

// activityTable is the name of the table for per-file activity caching.
const activityTable = "activity_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores opens the global manager's stores. An empty backend string
// skips that store entirely, which is how the cache-only and
// analysis-only setup paths avoid touching the other database.
// Concurrent and repeated calls initialize at most once.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, analysisBackend schema.DatabaseBackend, analysisConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var activity contract.CacheStore
		var analysis contract.AnalysisStore

		if cacheBackend != "" {
			store, err := NewCacheStore(activityTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize activity caching: %w", err)
				return
			}
			activity = store
		}

		if analysisBackend != "" {
			store, err := NewAnalysisStore(analysisBackend, analysisConnStr)
			if err != nil {
				// Don't leak the already-open cache connection
				if activity != nil {
					_ = activity.Close()
				}
				initErr = fmt.Errorf("failed to initialize analysis store: %w", err)
				return
			}
			analysis = store
		}

		Manager.activity = activity
		Manager.analysis = analysis
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		for _, store := range []io.Closer{Manager.activity, Manager.analysis} {
			if store != nil {
				_ = store.Close()
			}
		}
	})
}

// ClearCache removes all cached per-file walk data for the backend.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStoreData(backend, dbFilePath, connStr, []string{activityTable})
}

// ClearAnalysis removes all analysis tracking data for the backend.
func ClearAnalysis(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStoreData(backend, dbFilePath, connStr, []string{analysisRunsTable, functionCountsTable})
}

// clearStoreData wipes a store: SQLite loses its database file, MySQL
// and PostgreSQL drop the named tables, NoneBackend has nothing to do.
func clearStoreData(backend schema.DatabaseBackend, dbFilePath, connStr string, tables []string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// A file that never existed counts as cleared
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range tables {
			if err := dropSQLTable(driverFor(backend), connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// dropSQLTable connects to the SQL database and drops the table if it exists.
func dropSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
