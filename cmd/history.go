package cmd

import (
	"fmt"

	"github.com/huangsam/gradekit/core"
	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/internal/gradestore"
	"github.com/huangsam/gradekit/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the store with the loaded config
	if err := gradestore.InitHistory(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Precision = viper.GetInt("precision")
	cfg.Width = viper.GetInt("width")
	cfg.BandThresholds = schema.GetDefaultBandThresholds()
	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize the store or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = gradestore.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on grading run history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by grading commands. This avoids backend endpoint
// validation and grading parameter processing for simple history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage persisted grading runs",
	Long: `Manage the grading run history used for tracking scores over time.

When enabled, Gradekit records every completed grading run, storing:
- Run metadata (timestamp, rubric title, model)
- Reconciled totals, band and review status
- The full report as JSON for later inspection

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - Show all recorded grading runs
  status  - Show history store statistics
  purge   - Remove all recorded runs
  export  - Export runs to Parquet for analytics
  migrate - Run database schema migrations

Examples:
  # Show recorded runs
  gradekit history list

  # Export for analysis in pandas/DuckDB
  gradekit history export --output-file runs.parquet`,
}

// historyListCmd lists all recorded grading runs.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all recorded grading runs",
	Long: `List every grading run recorded in the history store, oldest first.

Shows the rubric title, reconciled total, band, review flag, pass count
and model for each run.

Examples:
  # Human-readable table
  gradekit history list

  # Machine-readable output
  gradekit history list --output json`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryList(gradestore.Manager, cfg); err != nil {
			contract.LogFatal("Failed to list grading history", err)
		}
	},
}

// historyStatusCmd shows history store status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history store statistics and connection details",
	Long: `Show detailed information about the grading run history store.

Displays:
- Backend type and connection status
- Total number of recorded runs
- Last and oldest run timestamps
- Database table sizes

Examples:
  # Check history store status
  gradekit history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryStatus(gradestore.Manager, cfg); err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
	},
}

// historyPurgeCmd removes all recorded grading runs.
var historyPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove all recorded grading runs",
	Long: `Delete every grading run from the history store.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before purging
  gradekit history export --output-file backup.parquet
  gradekit history purge`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryPurge(gradestore.Manager); err != nil {
			contract.LogFatal("Failed to purge grading history", err)
		}
		fmt.Println("Grading history purged successfully.")
	},
}

// historyExportCmd exports grading runs to a Parquet file.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded grading runs to Parquet for analytics",
	Long: `Export all recorded grading runs to Parquet format for use with analytics tools.

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools

Requires: --output-file parameter

Examples:
  # Export all runs
  gradekit history export --output-file runs.parquet

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('runs.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		cfg.Output = schema.ParquetOut
		if err := core.ExecuteHistoryList(gradestore.Manager, cfg); err != nil {
			contract.LogFatal("Failed to export grading history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the grading run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  gradekit history migrate

  # Migrate to specific version
  gradekit history migrate --target-version 1

  # Rollback to initial state
  gradekit history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := gradestore.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
