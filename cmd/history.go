package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/internal/history"
	"github.com/huangsam/hrzones/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history operations.
// It skips the report validation so history can be managed without credentials.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("history-backend")))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidHistoryBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	if err := contract.InitLogger(viper.GetBool("verbose")); err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// openHistory opens the configured store or exits.
func openHistory() *history.StoreImpl {
	store, err := history.NewStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err != nil {
		contract.LogFatal("Failed to open history store", err)
	}
	return store
}

// historyCmd focused on run history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the history of report runs",
	Long: `Manage the stored history of report runs.

Every successful report run stores:
- Run metadata (uuid, timestamps, duration, source, configuration)
- Per-zone summaries of every reported activity

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all history data
  migrate - Run database schema migrations`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display history statistics and connection details",
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := openHistory()
		status, err := store.GetStatus()
		_ = store.Close()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored runs and zone summaries to Parquet.

Requires: --output-file parameter

Examples:
  hrzones history export --output-file hrzones-data
  duckdb -c "SELECT zone, SUM(sample_count) FROM read_parquet('hrzones-data.zone_summaries.parquet') GROUP BY zone"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := openHistory()
		err := history.ExportHistory(store, cfg.OutputFile, os.Stdout)
		_ = store.Close()
		if err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored run history",
	Long: `Delete all stored runs and zone summaries.

WARNING: This action cannot be undone. Consider exporting data first.`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ClearHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  hrzones history migrate

  # Rollback to initial state
  hrzones history migrate --target-version 0`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		from, to, err := history.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Printf("Migrated history schema from version %d to %d.\n", from, to)
	},
}
