package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/internal/iosink"
	"github.com/huangsam/stylemetrics/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resolveSinkConfig reads and validates the sink backend settings.
func resolveSinkConfig() error {
	backendStr := strings.ToLower(viper.GetString("sink-backend"))
	connStr := viper.GetString("sink-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid sink backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.SinkBackend = backend
	cfg.SinkDBConnect = connStr
	return nil
}

// runsSetup loads minimal configuration needed for run sink operations.
// This is used by commands that need the sink without a project to scan.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := resolveSinkConfig(); err != nil {
		return err
	}
	cfg.OutputFile = viper.GetString("output-file")

	if err := iosink.InitSink(cfg.SinkBackend, cfg.SinkDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run sink: %w", err)
	}
	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup is like runsSetup but does NOT open the store or create
// tables, so migrations can run on a fresh database.
func runsMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := resolveSinkConfig(); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if cfg.SinkBackend == schema.SQLiteBackend && cfg.SinkDBConnect == "" {
		cfg.SinkDBConnect = contract.GetSinkDBFilePath()
	}
	return nil
}

// runsCmd focused on the history of recorded extractions.
//
// Note: runs subcommands skip the project validation done by sharedSetup.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage recorded extraction runs",
	Long: `Manage the extraction runs recorded by --sink-backend.

Every extraction with an enabled sink stores:
- Run metadata (project root, source directory, duration, fingerprint)
- The YAML report
- One row per flattened metric value

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show sink statistics
  export  - Export runs to Parquet for analytics
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Check sink status
  stylemetrics runs status --sink-backend sqlite

  # Export for analysis in pandas/DuckDB
  stylemetrics runs export --sink-backend sqlite --output-file runs`,
}

// runsStatusCmd shows sink status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run sink statistics and connection details",
	Long: `Show the backend, the number of recorded runs, the first and last run times
and the row count of every sink table.

Examples:
  stylemetrics runs status --sink-backend sqlite`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := sinkManager.GetRunStore()
		if store == nil {
			contract.LogFatal("Failed to get sink status", fmt.Errorf("run sink is disabled (backend %s)", cfg.SinkBackend))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get sink status", err)
		}
		iosink.PrintSinkStatus(os.Stdout, status)
	},
}

// runsExportCmd exports recorded runs to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to Parquet for BI tools and analytics",
	Long: `Export all recorded runs to Parquet.

Writes two files next to --output-file:
- <output-file>.runs.parquet - one row per extraction
- <output-file>.metric_values.parquet - one row per metric value per run

Requires: --output-file parameter

Examples:
  stylemetrics runs export --sink-backend sqlite --output-file history
  duckdb -c "SELECT * FROM read_parquet('history.metric_values.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iosink.ExportRuns(sinkManager.GetRunStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export runs", err)
		}
	},
}

// runsClearCmd clears the recorded runs.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete all recorded runs and metric values.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the sink tables

Examples:
  stylemetrics runs export --sink-backend sqlite --output-file backup
  stylemetrics runs clear --sink-backend sqlite`,
	PreRunE: runsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iosink.ClearRuns(cfg.SinkBackend, cfg.SinkDBConnect, cfg.SinkDBConnect); err != nil {
			contract.LogFatal("Failed to clear runs", err)
		}
		fmt.Println("Runs cleared successfully.")
	},
}

// runsMigrateCmd runs database migrations for the run sink.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the run sink tables.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  stylemetrics runs migrate --sink-backend postgresql --sink-db-connect "host=... dbname=..."

  # Rollback to initial state
  stylemetrics runs migrate --sink-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		msg, err := iosink.MigrateRuns(cfg.SinkBackend, cfg.SinkDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(msg)
	},
}
