package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// CacheStoreImpl is a key/value cache over any of the supported SQL
// backends. Keys map to serialized walk results plus a format version
// and a unix timestamp.
type CacheStoreImpl struct {
	db         *sql.DB
	tableName  string
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.CacheStore = &CacheStoreImpl{}

// NewCacheStore initializes and returns a new CacheStore based on the backend type.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	// The table name lands in SQL verbatim, so gate it first
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		return &CacheStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, driverName, err := openBackend(backend, connStr, contract.GetCacheDBFilePath())
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(getCreateTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &CacheStoreImpl{
		db:         db,
		tableName:  tableName,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(tableName string, backend schema.DatabaseBackend) string {
	d := dialectFor(backend)
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			cache_key %s PRIMARY KEY,
			cache_value %s NOT NULL,
			cache_version %s NOT NULL,
			cache_timestamp %s NOT NULL
		);
	`, quoteTableName(tableName, backend), d.str(255), d.blob, d.integer, d.bigint)
}

// disabled reports whether this store is the no-op variant.
func (cs *CacheStoreImpl) disabled() bool {
	return cs.backend == schema.NoneBackend || cs.db == nil
}

// Get retrieves a value by key from the store. The no-op store reports
// every key as missing.
func (cs *CacheStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if cs.disabled() {
		return nil, 0, 0, sql.ErrNoRows
	}

	query := fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s`,
		quoteTableName(cs.tableName, cs.backend), ph(cs.backend, 1))

	var (
		value   []byte
		version int
		ts      int64
	)
	if err := cs.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store. The no-op store
// drops the write.
func (cs *CacheStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if cs.disabled() {
		return nil
	}
	_, err := cs.db.Exec(cs.getUpsertQuery(), key, value, version, timestamp)
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (cs *CacheStoreImpl) getUpsertQuery() string {
	table := quoteTableName(cs.tableName, cs.backend)
	insert := fmt.Sprintf("INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (%s)",
		table, phList(cs.backend, 4))

	switch cs.backend {
	case schema.MySQLBackend:
		return insert + ` AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`

	case schema.PostgreSQLBackend:
		return insert + `
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`

	default: // SQLite
		return fmt.Sprintf("INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (%s)",
			table, phList(cs.backend, 4))
	}
}

// Close closes the underlying DB connection.
func (cs *CacheStoreImpl) Close() error {
	if cs.db == nil {
		return nil
	}
	return cs.db.Close()
}

// GetStatus returns status information about the cache store.
func (cs *CacheStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(cs.backend),
		Connected: cs.db != nil,
	}
	if cs.disabled() {
		return status, nil
	}

	quotedTableName := quoteTableName(cs.tableName, cs.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := cs.db.QueryRow(countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	boundsQuery := fmt.Sprintf("SELECT MAX(cache_timestamp), MIN(cache_timestamp) FROM %s", quotedTableName)
	if err := cs.db.QueryRow(boundsQuery).Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry time bounds: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	status.TableSizeBytes = cs.estimateTableSize(status.TotalEntries)

	return status, nil
}

// estimateTableSize reports the on-disk footprint of the cache table.
// Each backend exposes its own accounting; when that fails the estimate
// falls back to a rough per-entry figure.
func (cs *CacheStoreImpl) estimateTableSize(totalEntries int) int64 {
	fallback := int64(totalEntries) * 1000
	var size int64

	switch cs.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := cs.db.QueryRow(sizeQuery).Scan(&size); err != nil {
			return 0
		}

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(cs.connStr)
		if err != nil || cfg.DBName == "" {
			return fallback
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := cs.db.QueryRow(sizeQuery, cfg.DBName, cs.tableName).Scan(&size); err != nil {
			return fallback
		}

	case schema.PostgreSQLBackend:
		if err := cs.db.QueryRow("SELECT pg_total_relation_size($1)", cs.tableName).Scan(&size); err != nil {
			return fallback
		}

	default:
		return fallback
	}

	return size
}
