package iocache

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// openMigrationDB opens a bare connection for migrations. Unlike the
// store constructors it creates no tables, so a fresh database stays
// fresh until the migration itself runs.
func openMigrationDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetAnalysisDBFilePath()
		}
		return sql.Open(driverFor(backend), dbPath)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return sql.Open(driverFor(backend), connStr)
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// migrationDriver pairs the migrate driver for a backend with its DDL
// directory. Each backend ships separate migrations because index and
// table syntax is not portable across SQLite, MySQL and PostgreSQL.
func migrationDriver(backend schema.DatabaseBackend, db *sql.DB) (database.Driver, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		driver, err := sqlite.WithInstance(db, &sqlite.Config{})
		return driver, "migrations/sqlite", err
	case schema.MySQLBackend:
		driver, err := mysql.WithInstance(db, &mysql.Config{})
		return driver, "migrations/mysql", err
	case schema.PostgreSQLBackend:
		driver, err := postgres.WithInstance(db, &postgres.Config{})
		return driver, "migrations/postgres", err
	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// MigrateAnalysis runs database migrations for the analysis store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func MigrateAnalysis(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for NoneBackend")
	}

	db, err := openMigrationDB(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	driver, migrationDir, err := migrationDriver(backend, db)
	if err != nil {
		return fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	migrationFS, err := fs.Sub(migrationsFS, migrationDir)
	if err != nil {
		return fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "funcspot", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	// Every step treats ErrNoChange as success; only the wording differs
	run := func(step func() error, action, noChange string, success func() string) error {
		err := step()
		if err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("failed to %s: %w", action, err)
		}
		if err == migrate.ErrNoChange {
			fmt.Println(noChange)
			return nil
		}
		fmt.Println(success())
		return nil
	}

	switch {
	case targetVersion < 0:
		return run(m.Up, "migrate to latest version",
			"No migration needed. Database is already at the latest version.",
			func() string {
				newVersion, _, _ := m.Version()
				return fmt.Sprintf("Successfully migrated from version %d to version %d", currentVersion, newVersion)
			})
	case targetVersion == 0:
		// All the way down, leaving no migrations applied
		return run(m.Down, "roll back to version 0",
			"No migration needed. Database is already at version 0",
			func() string {
				return fmt.Sprintf("Successfully rolled back from version %d to version 0", currentVersion)
			})
	default:
		return run(func() error { return m.Migrate(uint(targetVersion)) },
			fmt.Sprintf("migrate to version %d", targetVersion),
			fmt.Sprintf("No migration needed. Database is already at version %d", targetVersion),
			func() string {
				return fmt.Sprintf("Successfully migrated from version %d to version %d", currentVersion, targetVersion)
			})
	}
}
