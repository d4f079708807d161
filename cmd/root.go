package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/internal/iocache"
	"github.com/pawnrank/pawnrank/internal/logging"
	"github.com/pawnrank/pawnrank/schema"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations. It carries the logger once setup runs.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// cacheManager is the global persistence manager instance.
var cacheManager contract.CacheManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "pawnrank",
	Short:              "Classify chess ratings into tiers and track promotion progress.",
	Long:               `Pawnrank maps Lichess ratings onto six tiers from PAWN to KING, each split into five sub-tiers, and shows how close a player is to the next one.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A .env file is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		contract.LogWarn("Could not read .env file", err)
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("PAWNRANK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// The conventional token variable is honored as well.
	if err := viper.BindEnv("lichess-token", "PAWNRANK_LICHESS_TOKEN", "LICHESS_TOKEN"); err != nil {
		contract.LogFatal("Error binding lichess token", err)
	}

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("game-type", schema.Blitz)
	viper.SetDefault("progress-mode", schema.SubTierProgress)
	viper.SetDefault("lichess-url", contract.DefaultLichessURL)
	viper.SetDefault("rate-limit", contract.DefaultRateLimit)
	viper.SetDefault("timeout", contract.DefaultTimeout.String())
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("cache-ttl", contract.DefaultCacheTTL.String())
	viper.SetDefault("snapshot-backend", "")
	viper.SetDefault("snapshot-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-format", logging.ConsoleFormat)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".pawnrank") // Name of config file (without extension)
		viper.SetConfigType("yaml")      // We'll use YAML format
		viper.AddConfigPath(".")         // Look in the current directory
		viper.AddConfigPath("$HOME")     // Look in the home directory
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// configureLogging installs the logger for cfg globally and on rootCtx.
func configureLogging(c *contract.Config) {
	logger := logging.New(c.LogLevel, c.LogFormat, os.Stderr)
	log.Logger = logger
	rootCtx = logging.WithContext(rootCtx, logger)
}

// parseConfig merges file, env and flags and validates the result into cfg.
func parseConfig() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	configureLogging(cfg)
	color.NoColor = !cfg.UseColors
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the configured stores.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := parseConfig(); err != nil {
		return err
	}

	// Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	log.Debug().
		Str("cache_backend", string(cfg.CacheBackend)).
		Str("snapshot_backend", string(cfg.SnapshotBackend)).
		Str("preset", string(cfg.Preset)).
		Msg("configuration loaded")
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// offlineSetupWrapper validates config for commands that never touch the network or a store.
func offlineSetupWrapper(_ *cobra.Command, _ []string) error {
	return parseConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}
