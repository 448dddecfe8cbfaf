package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixtures shaped like real activity-cache traffic: sha256-hex keys and
// JSON result payloads.
const walkKey = "4f62c1b0a9d8e7f64f62c1b0a9d8e7f64f62c1b0a9d8e7f64f62c1b0a9d8e7f6"

var walkPayload = []byte(`{"path":"core/engine.go","funcs":[{"name":"(*Engine) Run","commits":4}],"commits_walked":9}`)

func resetStoreGlobals() {
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite creates the db file", func(t *testing.T) {
		dbPath := contract.GetCacheDBFilePath()
		t.Cleanup(func() { _ = os.Remove(dbPath) })
		resetStoreGlobals()

		require.NoError(t, InitStores(schema.SQLiteBackend, "", "", ""))
		require.NotNil(t, Manager)
		assert.NotNil(t, Manager.GetActivityStore())

		CloseStores()

		_, err := os.Stat(dbPath)
		assert.False(t, os.IsNotExist(err), "db file should exist after init")
	})

	t.Run("repeat calls are safe", func(t *testing.T) {
		dbPath := contract.GetCacheDBFilePath()
		t.Cleanup(func() { _ = os.Remove(dbPath) })
		resetStoreGlobals()

		// Guarded by sync.Once on both sides
		for range 3 {
			assert.NoError(t, InitStores(schema.SQLiteBackend, "", "", ""))
		}
		for range 3 {
			CloseStores()
		}
	})

	t.Run("none backend still yields a store", func(t *testing.T) {
		resetStoreGlobals()

		require.NoError(t, InitStores(schema.NoneBackend, "", "", ""))
		assert.NotNil(t, Manager.GetActivityStore())
		CloseStores()
	})

	t.Run("bad mysql conn string fails init", func(t *testing.T) {
		resetStoreGlobals()
		t.Cleanup(resetStoreGlobals)

		err := InitStores(schema.MySQLBackend, "invalid://connection", "", "")
		assert.Error(t, err)
	})
}

func TestInitStoresNoneCombinations(t *testing.T) {
	// Either store may be disabled independently of the other
	tests := []struct {
		name            string
		cacheBackend    schema.DatabaseBackend
		cacheConn       string
		analysisBackend schema.DatabaseBackend
		analysisConn    string
	}{
		{"cache off analysis sqlite", schema.NoneBackend, "", schema.SQLiteBackend, ":memory:"},
		{"cache sqlite analysis off", schema.SQLiteBackend, ":memory:", schema.NoneBackend, ""},
		{"both off", schema.NoneBackend, "", schema.NoneBackend, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetStoreGlobals()

			require.NoError(t, InitStores(tt.cacheBackend, tt.cacheConn, tt.analysisBackend, tt.analysisConn))
			require.NotNil(t, Manager.GetActivityStore())
			require.NotNil(t, Manager.GetAnalysisStore())

			// A disabled cache swallows writes and never finds keys
			activity := Manager.GetActivityStore()
			assert.NoError(t, activity.Set(walkKey, walkPayload, 1, 1234567890))
			if tt.cacheBackend == schema.NoneBackend {
				_, _, _, err := activity.Get(walkKey)
				assert.Equal(t, sql.ErrNoRows, err)
			}

			CloseStores()
		})
	}
}

func TestActivityStoreRoundTrip(t *testing.T) {
	t.Run("set then get", func(t *testing.T) {
		store, err := NewCacheStore(activityTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Set(walkKey, walkPayload, 1, 1700000000))

		value, version, ts, err := store.Get(walkKey)
		require.NoError(t, err)
		assert.Equal(t, walkPayload, value)
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1700000000), ts)
	})

	t.Run("second set replaces the entry", func(t *testing.T) {
		store, err := NewCacheStore(activityTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Set(walkKey, walkPayload, 1, 1700000000))
		rewalked := []byte(`{"path":"core/engine.go","funcs":[{"name":"(*Engine) Run","commits":5}],"commits_walked":10}`)
		require.NoError(t, store.Set(walkKey, rewalked, 2, 1700000600))

		value, version, ts, err := store.Get(walkKey)
		require.NoError(t, err)
		assert.Equal(t, rewalked, value)
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(1700000600), ts)
	})

	t.Run("unknown key is ErrNoRows", func(t *testing.T) {
		store, err := NewCacheStore(activityTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		_, _, _, err = store.Get(strings.Repeat("0", 64))
		assert.Equal(t, sql.ErrNoRows, err)
	})

	t.Run("entries stay independent per key", func(t *testing.T) {
		store, err := NewCacheStore(activityTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		for i := range 3 {
			key := fmt.Sprintf("%064d", i)
			payload := fmt.Appendf(nil, `{"path":"pkg%d/file.go"}`, i)
			require.NoError(t, store.Set(key, payload, i+1, int64(1700000000+i)))
		}
		for i := range 3 {
			value, version, ts, err := store.Get(fmt.Sprintf("%064d", i))
			require.NoError(t, err)
			assert.Contains(t, string(value), fmt.Sprintf("pkg%d", i))
			assert.Equal(t, i+1, version)
			assert.Equal(t, int64(1700000000+i), ts)
		}
	})
}

func TestNoOpStoreBehavior(t *testing.T) {
	store, err := NewCacheStore(activityTable, schema.NoneBackend, "")
	require.NoError(t, err)

	// Writes succeed, reads miss, close is harmless
	assert.NoError(t, store.Set(walkKey, walkPayload, 1, 1700000000))
	_, _, _, err = store.Get(walkKey)
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, store.Close())

	// Same contract when a real backend lost its handle
	bare := &CacheStoreImpl{db: nil, tableName: activityTable, backend: schema.SQLiteBackend}
	_, _, _, err = bare.Get(walkKey)
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, bare.Set(walkKey, walkPayload, 1, 1700000000))
	assert.NoError(t, bare.Close())
}

func TestNewCacheStoreRejects(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		backend   schema.DatabaseBackend
	}{
		{"dashed table name", "activity-cache", schema.SQLiteBackend},
		{"empty table name", "", schema.SQLiteBackend},
		{"unknown backend", activityTable, "oracle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCacheStore(tt.tableName, tt.backend, "")
			assert.Error(t, err)
		})
	}
}

func TestValidateTableName(t *testing.T) {
	valid := []string{
		"activity_cache",
		"cache_v2",
		"_staging",
		"ACTIVITY",
		"Mixed_Case_9",
		strings.Repeat("a", 1000),
	}
	for _, name := range valid {
		assert.NoError(t, validateTableName(name), "%q should be accepted", name)
	}

	invalid := []string{
		"",
		"9lives",
		"has-dash",
		"has space",
		"has@sign",
		"semi;colon",
		"dotted.name",
		"x'; DROP TABLE runs; --",
		"caché", // only ASCII identifiers pass
	}
	for _, name := range invalid {
		assert.Error(t, validateTableName(name), "%q should be rejected", name)
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"activity_cache"`, quoteTableName(activityTable, schema.SQLiteBackend))
	assert.Equal(t, "`activity_cache`", quoteTableName(activityTable, schema.MySQLBackend))
	assert.Equal(t, `"activity_cache"`, quoteTableName(activityTable, schema.PostgreSQLBackend))
	// Unknown backends fall back to double quotes
	assert.Equal(t, `"activity_cache"`, quoteTableName(activityTable, schema.NoneBackend))
}

func TestBackendSQLDialects(t *testing.T) {
	t.Run("placeholders", func(t *testing.T) {
		assert.Equal(t, "?", ph(schema.SQLiteBackend, 1))
		assert.Equal(t, "?", ph(schema.MySQLBackend, 3))
		assert.Equal(t, "$1", ph(schema.PostgreSQLBackend, 1))
		assert.Equal(t, "$4", ph(schema.PostgreSQLBackend, 4))

		assert.Equal(t, "?, ?, ?", phList(schema.SQLiteBackend, 3))
		assert.Equal(t, "$1, $2", phList(schema.PostgreSQLBackend, 2))
	})

	t.Run("upsert statements", func(t *testing.T) {
		tests := []struct {
			backend schema.DatabaseBackend
			needles []string
		}{
			{schema.SQLiteBackend, []string{"INSERT OR REPLACE", `"activity_cache"`}},
			{schema.MySQLBackend, []string{"ON DUPLICATE KEY UPDATE", "`activity_cache`"}},
			{schema.PostgreSQLBackend, []string{"ON CONFLICT", "DO UPDATE SET", "$4"}},
		}
		for _, tt := range tests {
			store := &CacheStoreImpl{backend: tt.backend, tableName: activityTable}
			query := store.getUpsertQuery()
			for _, needle := range tt.needles {
				assert.Contains(t, query, needle, "%s upsert", tt.backend)
			}
		}
	})

	t.Run("create table statements", func(t *testing.T) {
		tests := []struct {
			backend schema.DatabaseBackend
			needles []string
		}{
			{schema.SQLiteBackend, []string{"cache_key TEXT PRIMARY KEY", "cache_value BLOB", "cache_timestamp INTEGER"}},
			{schema.MySQLBackend, []string{"cache_key VARCHAR(255) PRIMARY KEY", "cache_value BLOB", "cache_timestamp BIGINT"}},
			{schema.PostgreSQLBackend, []string{"cache_key TEXT PRIMARY KEY", "cache_value BYTEA", "cache_timestamp BIGINT"}},
		}
		for _, tt := range tests {
			query := getCreateTableQuery(activityTable, tt.backend)
			assert.Contains(t, query, "CREATE TABLE IF NOT EXISTS", "%s ddl", tt.backend)
			for _, needle := range tt.needles {
				assert.Contains(t, query, needle, "%s ddl", tt.backend)
			}
		}
	})
}

func TestClearCache(t *testing.T) {
	t.Run("sqlite removes the db file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "activity.db")

		db, err := sql.Open("sqlite", dbPath)
		require.NoError(t, err)
		_, err = db.Exec("CREATE TABLE probe (id INTEGER PRIMARY KEY)")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))

		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err), "db file should be gone")
	})

	t.Run("sqlite tolerates a missing file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "never_created.db")
		assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	})

	t.Run("sqlite requires a file path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend is a no-op", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	})

	t.Run("unknown backend errors", func(t *testing.T) {
		assert.Error(t, ClearCache("oracle", "", ""))
	})
}

func TestManagerConcurrentAccess(t *testing.T) {
	resetStoreGlobals()
	require.NoError(t, InitStores(schema.SQLiteBackend, ":memory:", "", ""))
	defer CloseStores()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() {
			store := Manager.GetActivityStore()
			if store == nil {
				t.Error("GetActivityStore returned nil")
				return
			}
			if err := store.Set(walkKey, walkPayload, 1, int64(1700000000+i)); err != nil {
				t.Errorf("concurrent Set: %v", err)
			}
		})
	}
	wg.Wait()
}

func TestCacheStoreGetStatus(t *testing.T) {
	t.Run("populated sqlite store", func(t *testing.T) {
		store, err := NewCacheStore(activityTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		entries := []struct {
			key string
			ts  int64
		}{
			{strings.Repeat("a", 64), 1700000000},
			{strings.Repeat("b", 64), 1700000900},
			{strings.Repeat("c", 64), 1700000500},
		}
		for _, entry := range entries {
			require.NoError(t, store.Set(entry.key, walkPayload, 1, entry.ts))
		}

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 3, status.TotalEntries)
		assert.Equal(t, time.Unix(1700000900, 0), status.LastEntryTime)
		assert.Equal(t, time.Unix(1700000000, 0), status.OldestEntryTime)
		assert.Greater(t, status.TableSizeBytes, int64(0))
	})

	t.Run("empty sqlite store", func(t *testing.T) {
		store, err := NewCacheStore(activityTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Zero(t, status.TotalEntries)
		assert.True(t, status.LastEntryTime.IsZero())
		assert.True(t, status.OldestEntryTime.IsZero())
		assert.Zero(t, status.TableSizeBytes)
	})

	t.Run("disabled store", func(t *testing.T) {
		store, err := NewCacheStore(activityTable, schema.NoneBackend, "")
		require.NoError(t, err)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "none", status.Backend)
		assert.False(t, status.Connected)
		assert.Zero(t, status.TotalEntries)
	})
}
