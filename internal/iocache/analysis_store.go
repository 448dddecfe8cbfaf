package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
)

// Table names for analysis tracking.
const (
	analysisRunsTable   = "funcspot_analysis_runs"
	functionCountsTable = "funcspot_function_counts"
)

// AnalysisStoreImpl persists analysis runs and their ranked function
// counts across the supported SQL backends.
type AnalysisStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{}

// sqlDialect holds the type spellings that differ between backends. The
// table layouts are otherwise identical, so each CREATE TABLE statement
// is written once and filled in from here.
type sqlDialect struct {
	runKey     string // auto-incrementing primary key for analysis runs
	timestamp  string
	integer    string
	bigint     string
	blob       string
	capVarchar bool // MySQL utf8mb4 index limits want capped VARCHAR over TEXT
}

var dialects = map[schema.DatabaseBackend]sqlDialect{
	schema.MySQLBackend: {
		runKey:     "BIGINT AUTO_INCREMENT PRIMARY KEY",
		timestamp:  "DATETIME(6)",
		integer:    "INT",
		bigint:     "BIGINT",
		blob:       "BLOB",
		capVarchar: true,
	},
	schema.PostgreSQLBackend: {
		runKey:    "BIGSERIAL PRIMARY KEY",
		timestamp: "TIMESTAMPTZ",
		integer:   "INT",
		bigint:    "BIGINT",
		blob:      "BYTEA",
	},
	// SQLite stores timestamps as RFC3339 text, which storedTime undoes on scan
	schema.SQLiteBackend: {
		runKey:    "INTEGER PRIMARY KEY AUTOINCREMENT",
		timestamp: "TEXT",
		integer:   "INTEGER",
		bigint:    "INTEGER",
		blob:      "BLOB",
	},
}

func dialectFor(backend schema.DatabaseBackend) sqlDialect {
	if d, ok := dialects[backend]; ok {
		return d
	}
	return dialects[schema.SQLiteBackend]
}

// str returns the dialect's string column type for values up to maxLen.
func (d sqlDialect) str(maxLen int) string {
	if d.capVarchar {
		return fmt.Sprintf("VARCHAR(%d)", maxLen)
	}
	return "TEXT"
}

// storedTime scans a timestamp column from any backend. MySQL and
// PostgreSQL hand back native datetime values; SQLite hands back the
// RFC3339Nano strings formatTime wrote. A NULL column leaves valid false.
type storedTime struct {
	t     time.Time
	valid bool
}

func (st *storedTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		st.valid = false
		return nil
	case time.Time:
		st.t, st.valid = v, true
		return nil
	case string:
		return st.parse(v)
	case []byte:
		return st.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T as a stored time", src)
	}
}

func (st *storedTime) parse(s string) error {
	// The second layout covers MySQL DSNs that omit parseTime
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			st.t, st.valid = t, true
			return nil
		}
	}
	return fmt.Errorf("unrecognized stored time %q", s)
}

// formatTime converts a time.Time into what the backend's timestamp
// column expects on insert.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.Format(time.RFC3339Nano)
	}
	return t
}

// NewAnalysisStore opens the tracking store for the given backend. A
// NoneBackend store accepts every call and does nothing.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, driverName, err := openBackend(backend, connStr, contract.GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{db: db, backend: backend, driverName: driverName}, nil
}

// createAnalysisTables creates both tracking tables if they are missing.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	ddl := map[string]string{
		analysisRunsTable:   getCreateAnalysisRunsQuery(backend),
		functionCountsTable: getCreateFunctionCountsQuery(backend),
	}
	for name, query := range ddl {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
	}
	return nil
}

// getCreateAnalysisRunsQuery returns the CREATE TABLE query for funcspot_analysis_runs.
func getCreateAnalysisRunsQuery(backend schema.DatabaseBackend) string {
	d := dialectFor(backend)
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			analysis_id %s,
			start_time %s NOT NULL,
			end_time %s,
			run_duration_ms %s,
			total_files_analyzed %s,
			config_params TEXT
		);
	`, quoteTableName(analysisRunsTable, backend), d.runKey, d.timestamp, d.timestamp, d.integer, d.integer)
}

// getCreateFunctionCountsQuery returns the CREATE TABLE query for funcspot_function_counts.
// The table is an append-only fact table: one row per ranked function per run.
// MySQL key length limits on utf8mb4 rule out a natural primary key across
// file_path and qualified_name, so lookup indexes live in the migrations instead.
func getCreateFunctionCountsQuery(backend schema.DatabaseBackend) string {
	d := dialectFor(backend)
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			analysis_id %s NOT NULL,
			file_path %s NOT NULL,
			qualified_name %s NOT NULL,
			language %s NOT NULL,
			start_line %s NOT NULL,
			change_count %s NOT NULL,
			analysis_time %s NOT NULL
		);
	`, quoteTableName(functionCountsTable, backend), d.bigint, d.str(512), d.str(512), d.str(16), d.integer, d.integer, d.timestamp)
}

// disabled reports whether this store is the no-op variant.
func (as *AnalysisStoreImpl) disabled() bool {
	return as.backend == schema.NoneBackend || as.db == nil
}

// row runs a single-row query against the store.
func (as *AnalysisStoreImpl) row(query string, dest ...any) error {
	return as.db.QueryRow(query).Scan(dest...)
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	if as.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	runsTable := quoteTableName(analysisRunsTable, as.backend)

	var analysisID int64
	if as.backend == schema.PostgreSQLBackend {
		// pgx has no LastInsertId, so take the ID from RETURNING
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (%s) RETURNING analysis_id`,
			runsTable, phList(as.backend, 2))
		err = as.db.QueryRow(query, startTime, string(configJSON)).Scan(&analysisID)
	} else {
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (%s)`,
			runsTable, phList(as.backend, 2))
		var result sql.Result
		result, err = as.db.Exec(query, formatTime(startTime, as.backend), string(configJSON))
		if err != nil {
			return 0, err
		}
		analysisID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}

	return analysisID, nil
}

// EndAnalysis updates the analysis run with completion data.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalFiles int) error {
	if as.disabled() {
		return nil
	}

	runsTable := quoteTableName(analysisRunsTable, as.backend)

	// The run duration derives from the stored start_time
	var start storedTime
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = %s`, runsTable, ph(as.backend, 1))
	if err := as.db.QueryRow(query, analysisID).Scan(&start); err != nil {
		return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
	}
	durationMs := endTime.Sub(start.t).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_files_analyzed = %s WHERE analysis_id = %s`,
		runsTable, ph(as.backend, 1), ph(as.backend, 2), ph(as.backend, 3), ph(as.backend, 4))
	if _, err := as.db.Exec(updateQuery, formatTime(endTime, as.backend), durationMs, totalFiles, analysisID); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}

	return nil
}

// RecordFunctionCounts stores the ranked function counts for a run in one transaction.
func (as *AnalysisStoreImpl) RecordFunctionCounts(analysisID int64, analysisTime time.Time, records []schema.FuncRecord) error {
	if as.disabled() || len(records) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (analysis_id, file_path, qualified_name, language, start_line, change_count, analysis_time)
		VALUES (%s)
	`, quoteTableName(functionCountsTable, as.backend), phList(as.backend, 7))

	tx, err := as.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare function count insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	ts := formatTime(analysisTime, as.backend)
	for _, rec := range records {
		if _, err := stmt.Exec(analysisID, rec.Path, rec.Name, string(rec.Language), rec.Line, rec.Commits, ts); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert function count for %s: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit function counts: %w", err)
	}

	return nil
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db == nil {
		return nil
	}
	return as.db.Close()
}

// GetStatus reports backend, row counts and run time bounds.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}
	if as.disabled() {
		return status, nil
	}

	runsTable := quoteTableName(analysisRunsTable, as.backend)
	if err := as.row(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable), &status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		// Run IDs ascend, so the ID order gives the time bounds
		var last, oldest storedTime
		if err := as.row(fmt.Sprintf("SELECT analysis_id, start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", runsTable),
			&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		if err := as.row(fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", runsTable), &oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.LastRunTime, status.OldestRunTime = last.t, oldest.t

		if err := as.row(fmt.Sprintf("SELECT COALESCE(SUM(total_files_analyzed), 0) FROM %s", runsTable),
			&status.TotalFilesAnalyzed); err != nil {
			return status, fmt.Errorf("failed to get total files analyzed: %w", err)
		}
	}

	for _, table := range []string{analysisRunsTable, functionCountsTable} {
		var count int64
		if err := as.row(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend)), &count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalFunctionsRecorded = int(status.TableSizes[functionCountsTable])

	return status, nil
}

// collectRows drains rows through scan, closing them before returning.
func collectRows[T any](rows *sql.Rows, what string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer func() { _ = rows.Close() }()

	var results []T
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", what, err)
	}
	return results, nil
}

// GetAllAnalysisRuns retrieves every analysis run, oldest first.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT analysis_id, start_time, end_time, run_duration_ms, total_files_analyzed, config_params FROM %s ORDER BY analysis_id",
		quoteTableName(analysisRunsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}

	return collectRows(rows, "analysis run", func(rows *sql.Rows) (schema.AnalysisRunRecord, error) {
		var record schema.AnalysisRunRecord
		var start, end storedTime
		if err := rows.Scan(&record.AnalysisID, &start, &end,
			&record.RunDurationMs, &record.TotalFilesAnalyzed, &record.ConfigParams); err != nil {
			return record, err
		}
		record.StartTime = start.t
		if end.valid {
			t := end.t
			record.EndTime = &t
		}
		return record, nil
	})
}

// GetAllFunctionCounts retrieves every function count row, grouped by
// run and ordered by file position within each run.
func (as *AnalysisStoreImpl) GetAllFunctionCounts() ([]schema.FunctionCountRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT analysis_id, file_path, qualified_name, language, start_line, change_count, analysis_time FROM %s ORDER BY analysis_id, file_path, start_line",
		quoteTableName(functionCountsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query function counts: %w", err)
	}

	return collectRows(rows, "function count", func(rows *sql.Rows) (schema.FunctionCountRecord, error) {
		var record schema.FunctionCountRecord
		var when storedTime
		if err := rows.Scan(&record.AnalysisID, &record.FilePath, &record.QualifiedName, &record.Language,
			&record.StartLine, &record.ChangeCount, &when); err != nil {
			return record, err
		}
		record.AnalysisTime = when.t
		return record, nil
	})
}
