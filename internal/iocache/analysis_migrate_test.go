package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/huangsam/funcspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sqliteTableExists checks sqlite_master for a table by name.
func sqliteTableExists(t *testing.T, dbPath, table string) bool {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var count int
	err = db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

func TestMigrateAnalysis_NoneBackend(t *testing.T) {
	err := MigrateAnalysis(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateAnalysis_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")

	// Latest is version 3: runs table, counts table, counts index
	err := MigrateAnalysis(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.True(t, sqliteTableExists(t, dbPath, "funcspot_analysis_runs"))
	assert.True(t, sqliteTableExists(t, dbPath, "funcspot_function_counts"))

	// Re-running at the latest version is a no-op
	err = MigrateAnalysis(schema.SQLiteBackend, dbPath, -1)
	assert.NoError(t, err)

	// Version 1 has only the runs table
	err = MigrateAnalysis(schema.SQLiteBackend, dbPath, 1)
	assert.NoError(t, err)
	assert.True(t, sqliteTableExists(t, dbPath, "funcspot_analysis_runs"))
	assert.False(t, sqliteTableExists(t, dbPath, "funcspot_function_counts"))

	// Version 0 drops everything
	err = MigrateAnalysis(schema.SQLiteBackend, dbPath, 0)
	assert.NoError(t, err)
	assert.False(t, sqliteTableExists(t, dbPath, "funcspot_analysis_runs"))

	// Back up to a pinned version restores both tables
	err = MigrateAnalysis(schema.SQLiteBackend, dbPath, 3)
	assert.NoError(t, err)
	assert.True(t, sqliteTableExists(t, dbPath, "funcspot_analysis_runs"))
	assert.True(t, sqliteTableExists(t, dbPath, "funcspot_function_counts"))
}

func TestMigrateAnalysis_SQLiteInMemory(t *testing.T) {
	err := MigrateAnalysis(schema.SQLiteBackend, ":memory:", -1)
	require.NoError(t, err)
}
