package schema

// Custom string types for type safety.
type (
	// Language represents a supported source language grammar.
	Language string

	// OutputMode represents the format of the output.
	OutputMode string

	// Status represents the status of a function between two refs.
	Status string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All languages supported.
const (
	GoLang   Language = "go"
	RustLang Language = "rust"
	LuaLang  Language = "lua"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All status supported.
const (
	NewStatus     Status = "new"
	RemovedStatus Status = "removed"
	ChangedStatus Status = "changed"
	StableStatus  Status = "stable"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllLanguages returns a list of all supported languages.
var AllLanguages = []Language{GoLang, RustLang, LuaLang}

// ValidLanguages lists all valid languages.
var ValidLanguages = map[Language]struct{}{
	GoLang:   {},
	RustLang: {},
	LuaLang:  {},
}

// LanguageExtensions maps file extensions to the grammar used to parse them.
var LanguageExtensions = map[string]Language{
	".go":  GoLang,
	".rs":  RustLang,
	".lua": LuaLang,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
