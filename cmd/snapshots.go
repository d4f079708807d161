package cmd

import (
	"fmt"
	"os"

	"github.com/pawnrank/pawnrank/core"
	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/internal/iocache"
	"github.com/pawnrank/pawnrank/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// snapshotBackendConfig reads and validates the snapshot backend settings.
// An empty backend means snapshots are disabled.
func snapshotBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backendStr := viper.GetString("snapshot-backend")
	connStr := viper.GetString("snapshot-db-connect")

	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// snapshotsSetup loads minimal configuration needed for snapshot operations.
func snapshotsSetup() error {
	backend, connStr, err := snapshotBackendConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no response cache for snapshot commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize snapshots: %w", err)
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// snapshotsSetupWrapper wraps snapshotsSetup to provide PreRunE for snapshot commands.
func snapshotsSetupWrapper(_ *cobra.Command, _ []string) error {
	return snapshotsSetup()
}

// snapshotsMigrateSetup loads the backend settings without opening the store,
// so migrations can run on a fresh or older database.
func snapshotsMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := snapshotBackendConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetSnapshotDBFilePath()
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr
	return nil
}

// snapshotsCmd focused on tier snapshot management.
//
// Note: Snapshot subcommands other than list use minimal initialization
// (snapshotsSetup) instead of the full sharedSetup used by lookup commands.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage recorded tier snapshots",
	Long: `Manage the tier snapshots recorded by 'pawnrank player' when --snapshot-backend is set.

Each snapshot stores the rating, tier, sub-tier and progress of one lookup,
along with the preset and progress mode that produced it.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - Show a player's snapshots, newest first
  status  - Show snapshot statistics and connection info
  export  - Export all snapshots to Parquet
  migrate - Run database schema migrations
  clear   - Remove all snapshots`,
}

// snapshotsListCmd lists one player's snapshots.
var snapshotsListCmd = &cobra.Command{
	Use:   "list <username>",
	Short: "Show a player's recorded snapshots, newest first",
	Long: `List the snapshots recorded for one player, newest first, up to --limit rows.

Examples:
  # Latest snapshots of alice
  pawnrank snapshots list alice --snapshot-backend sqlite

  # Full history as CSV
  pawnrank snapshots list alice --snapshot-backend sqlite --limit 200 --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runLookup(core.ExecuteSnapshots, "Cannot list snapshots"),
}

// snapshotsClearCmd clears all snapshots.
var snapshotsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded snapshots",
	Long: `Delete every snapshot from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the snapshot and migration tables

Examples:
  # Clear the default SQLite snapshot store
  pawnrank snapshots clear --snapshot-backend sqlite`,
	PreRunE: snapshotsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The SQLite file cannot be removed while it is open.
		iocache.CloseStores()
		if err := iocache.ClearSnapshots(cfg.SnapshotBackend, snapshotFilePath(), cfg.SnapshotDBConnect); err != nil {
			contract.LogFatal("Failed to clear snapshots", err)
		}
		fmt.Println("Snapshots cleared successfully.")
	},
}

// snapshotsStatusCmd shows snapshot store status.
var snapshotsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display snapshot statistics and connection details",
	Long: `Show detailed information about the snapshot store.

Displays:
- Backend type and connection status
- Total snapshots and distinct players
- Oldest and latest snapshot timestamps
- Table row counts

Examples:
  pawnrank snapshots status --snapshot-backend sqlite`,
	PreRunE: snapshotsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSnapshotStore()
		if store == nil {
			contract.LogFatal("Failed to get snapshot status", fmt.Errorf("snapshot store is not configured; set --snapshot-backend"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get snapshot status", err)
		}
		iocache.PrintSnapshotStatus(os.Stdout, status)
	},
}

// snapshotsExportCmd exports snapshots to Parquet.
var snapshotsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all snapshots to Parquet for BI tools and analytics",
	Long: `Export every recorded snapshot to a Parquet file.

Requires: --output-file parameter

Examples:
  # Export all snapshots
  pawnrank snapshots export --snapshot-backend sqlite --output-file snapshots.parquet

  # Query with DuckDB
  duckdb -c "SELECT username, max(rating) FROM read_parquet('snapshots.parquet') GROUP BY 1"`,
	PreRunE: snapshotsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportSnapshots(iocache.Manager.GetSnapshotStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export snapshots", err)
		}
	},
}

// snapshotsMigrateCmd runs database migrations for the snapshot store.
var snapshotsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the snapshot store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  pawnrank snapshots migrate --snapshot-backend sqlite

  # Migrate to specific version
  pawnrank snapshots migrate --snapshot-backend sqlite --target-version 1

  # Rollback everything
  pawnrank snapshots migrate --snapshot-backend sqlite --target-version 0`,
	PreRunE: snapshotsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := iocache.MigrateSnapshots(cfg.SnapshotBackend, cfg.SnapshotDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		if !result.Changed {
			fmt.Printf("Snapshot schema already at version %d.\n", result.To)
			return
		}
		fmt.Printf("Migrated snapshot schema from version %d to %d.\n", result.From, result.To)
	},
}

// snapshotFilePath resolves the SQLite snapshot file, honoring an explicit connection string.
func snapshotFilePath() string {
	if cfg.SnapshotBackend == schema.SQLiteBackend && cfg.SnapshotDBConnect != "" {
		return cfg.SnapshotDBConnect
	}
	return iocache.GetSnapshotDBFilePath()
}
