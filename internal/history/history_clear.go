package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/hrzones/schema"
)

// ClearHistory removes all recorded runs for the specified backend.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the history tables and the migration table.
// For NoneBackend, it does nothing.
func ClearHistory(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			return errors.New("database path cannot be empty for SQLite backend")
		}
		if err := os.Remove(connStr); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", connStr, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := openDB(backend, connStr)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		for _, table := range []string{zoneSummaryTable, runsTable, "schema_migrations"} {
			if err := dropTable(db, backend, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

func dropTable(db *sql.DB, backend schema.DatabaseBackend, table string) error {
	if err := validateTableName(table); err != nil {
		return err
	}
	if _, err := db.Exec("DROP TABLE IF EXISTS " + quoteTableName(table, backend)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	return nil
}
