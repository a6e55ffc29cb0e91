package cmd

import (
	"fmt"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/internal/gradestore"
	"github.com/gradekit/gradekit/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for grade archive operations.
// This is used by commands that need archive access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get archive-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.StoreBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.StoreBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateStoreConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize the archive with the loaded config
	if err := gradestore.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize grade archive: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize the store or create tables,
// allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get archive-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.StoreBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.StoreBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateStoreConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetGradeDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on grade archive management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by grading commands. This avoids repo validation
// and complex config processing for simple archive operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the grade archive and exports",
	Long: `Manage the archive of past grading runs.

When enabled, Gradekit records every grading run, storing:
- Run metadata (timestamp, configuration, repository count)
- Final grades per repository (score, letter, adjustments)
- Per-milestone quality scores and remarks

The archive feeds the upload and notify commands and enables re-grading
audits and longitudinal reporting.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show grade archive statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all archived runs
  migrate - Run database schema migrations

Examples:
  # Check archive status
  gradekit store status

  # Export for analysis in pandas/DuckDB
  gradekit store export --output-file grades.parquet`,
}

// storeClearCmd clears the grade archive.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all archived grading runs",
	Long: `Delete all stored grading runs and milestone score history.

This removes:
- All run metadata
- Final grades for every repository across all runs
- Per-milestone quality scores and remarks

WARNING: This action cannot be undone. Consider exporting data first.

Use this when:
- Starting a new term or assignment
- The archive holds test or bogus runs
- Database storage is full

Examples:
  # Export before clearing
  gradekit store export --output-file backup.parquet
  gradekit store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := gradestore.ClearStore(cfg.StoreBackend, gradestore.GetGradeDBFilePath(), cfg.StoreConnect); err != nil {
			contract.LogFatal("Failed to clear grade archive", err)
		}
		fmt.Println("Grade archive cleared successfully.")
	},
}

// storeStatusCmd shows grade archive status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display grade archive statistics and connection details",
	Long: `Show detailed information about the grade archive.

Displays:
- Backend type and connection status
- Total number of grading runs stored
- Last and oldest run timestamps
- Total repositories graded across all runs

Use this to:
- Verify archiving is enabled and working
- Confirm a batch run was recorded before uploading
- Check database connection health

Examples:
  # Check archive status
  gradekit store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := gradestore.Manager.GetGradeStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get grade archive status", err)
		}
		gradestore.PrintStoreStatus(status)
	},
}

// storeExportCmd exports the grade archive to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived grades to Parquet for BI tools and analytics",
	Long: `Export all archived grading data to Parquet format for analytics tools.

Exports three datasets:
- Grading runs - metadata about each run
- Grade reports - final scores and letters per repository
- Milestone scores - per-milestone quality and earned points

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Use cases:
- Grade distribution analysis across terms
- Milestone difficulty tuning
- Departmental reporting

Examples:
  # Export all data
  gradekit store export --output-file grades.parquet

  # Use with DuckDB for analysis
  gradekit store export --output-file grades.parquet
  duckdb -c "SELECT * FROM read_parquet('grades.parquet/reports.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := gradestore.ExecuteGradeExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export grade archive", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the grade archive.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the grade archive.

Migrations allow:
- Upgrading to new schema versions when Gradekit is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  gradekit store migrate

  # Migrate to specific version
  gradekit store migrate --target-version 2

  # Rollback to previous version
  gradekit store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := gradestore.MigrateStore(cfg.StoreBackend, cfg.StoreConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
