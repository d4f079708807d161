// Package cmd defines the command-line interface for pawnrank.
package cmd

import (
	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(thresholdsCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cachePruneCmd)

	// Add the snapshots subcommands to the parent snapshots command
	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsClearCmd)
	snapshotsCmd.AddCommand(snapshotsStatusCmd)
	snapshotsCmd.AddCommand(snapshotsExportCmd)
	snapshotsCmd.AddCommand(snapshotsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("preset", "", "Threshold preset: profile or chart (chart command defaults to chart)")
	rootCmd.PersistentFlags().String("thresholds-override", "", "Tier thresholds on top of the preset (format: 'knight:900,bishop:1200')")
	rootCmd.PersistentFlags().String("progress-mode", string(schema.SubTierProgress), "Progress mode: subtier or tier")
	rootCmd.PersistentFlags().StringP("game-type", "g", string(schema.Blitz), "Game type: bullet or blitz or rapid or classical or correspondence or chess960 or puzzle")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent profile lookups")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug or info or warn or error (default warn)")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console or json")
	rootCmd.PersistentFlags().String("lichess-url", contract.DefaultLichessURL, "Base URL of the Lichess API")
	rootCmd.PersistentFlags().String("lichess-token", "", "Lichess API token (prefer the LICHESS_TOKEN env variable)")
	rootCmd.PersistentFlags().Float64("rate-limit", contract.DefaultRateLimit, "Maximum Lichess requests per second")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Per-request timeout for Lichess calls")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Response cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long cached Lichess responses stay fresh")
	rootCmd.PersistentFlags().String("snapshot-backend", "", "Tier snapshot backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("snapshot-db-connect", "", "Database connection string for tier snapshots (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of chartCmd to Viper
	chartCmd.Flags().String("chart-file", "", "PNG file to write (default <username>_<game-type>.png)")
	if err := viper.BindPFlags(chartCmd.Flags()); err != nil {
		contract.LogFatal("Error binding chart flags", err)
	}

	// Bind all flags of cachePruneCmd to Viper
	cachePruneCmd.Flags().String("older-than", "", "Prune entries older than this duration (default: the cache TTL)")
	if err := viper.BindPFlags(cachePruneCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache prune flags", err)
	}

	// Bind all flags of snapshotsMigrateCmd to Viper
	snapshotsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(snapshotsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshots migrate flags", err)
	}
}
