package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/internal/iocache"
	"github.com/pawnrank/pawnrank/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no snapshot store for cache commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	cfg.CacheTTL = contract.DefaultCacheTTL
	if ttl, err := contract.ParseAge(viper.GetString("cache-ttl")); err == nil && ttl > 0 {
		cfg.CacheTTL = ttl
	}

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by lookup commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the Lichess response cache",
	Long: `Manage the cache of Lichess API responses.

Profiles, rating histories and leaderboards are cached for --cache-ttl so repeated
lookups stay within the Lichess rate limits.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  prune  - Remove entries older than the TTL
  clear  - Remove all cached data

Examples:
  # Check cache status
  pawnrank cache status

  # Drop everything older than a day
  pawnrank cache prune --older-than 24h`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached Lichess responses",
	Long: `Delete all cached responses from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  pawnrank cache clear

  # Clear MySQL cache (set connection string via env variable)
  PAWNRANK_CACHE_BACKEND=mysql PAWNRANK_CACHE_DB_CONNECT="..." pawnrank cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The SQLite file cannot be removed while it is open.
		iocache.CloseStores()
		if err := iocache.ClearCache(cfg.CacheBackend, cacheFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the response cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache table size

Examples:
  # Check cache status
  pawnrank cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetResponseStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// cachePruneCmd removes stale entries.
var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cached responses older than the cache TTL",
	Long: `Delete cached responses that are older than --older-than, or --cache-ttl when unset.

Stale entries are never served, so pruning only reclaims space.

Examples:
  # Prune with the configured TTL
  pawnrank cache prune

  # Prune everything older than a week
  pawnrank cache prune --older-than "1 week"`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		age := cfg.CacheTTL
		if raw := viper.GetString("older-than"); raw != "" {
			parsed, err := contract.ParseAge(raw)
			if err != nil {
				contract.LogFatal("Invalid --older-than value", err)
			}
			age = parsed
		}
		removed, err := iocache.Manager.GetResponseStore().Prune(time.Now().Add(-age).Unix())
		if err != nil {
			contract.LogFatal("Failed to prune cache", err)
		}
		fmt.Printf("Pruned %d cached responses older than %s.\n", removed, age)
	},
}

// cacheFilePath resolves the SQLite cache file, honoring an explicit connection string.
func cacheFilePath() string {
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.CacheDBConnect != "" {
		return cfg.CacheDBConnect
	}
	return iocache.GetCacheDBFilePath()
}
