package history

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/hrzones/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrateHistory runs schema migrations for the history store.
//   - If targetVersion < 0, it migrates to the latest version.
//   - If targetVersion == 0, it rolls back every migration.
//   - If targetVersion > 0, it migrates to that version.
//
// It returns the version before and after the migration.
func MigrateHistory(backend schema.DatabaseBackend, connStr string, targetVersion int) (from, to uint, err error) {
	if backend == schema.NoneBackend {
		return 0, 0, errors.New("migrations are not supported for NoneBackend")
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = db.Close() }()

	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	sub, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(backend), driver)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, 0, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return from, from, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", from)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return from, from, fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
	}

	to, _, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return from, 0, nil
	}
	if err != nil {
		return from, to, fmt.Errorf("failed to read migrated version: %w", err)
	}
	return from, to, nil
}
