package contract

import (
	"fmt"
	"maps"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pawnrank/pawnrank/core/algo"
	"github.com/pawnrank/pawnrank/internal/logging"
	"github.com/pawnrank/pawnrank/schema"
	"github.com/rs/zerolog"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 200
	DefaultPrecision   = 1
	DefaultLichessURL  = "https://lichess.org"
	DefaultRateLimit   = 4.0
	DefaultTimeout     = 15 * time.Second
	DefaultCacheTTL    = time.Hour
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Preset       schema.ThresholdPreset
	Thresholds   *algo.ThresholdTable
	ProgressMode schema.ProgressMode
	GameType     schema.GameType

	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	LogLevel  zerolog.Level
	LogFormat logging.Format

	LichessURL   string
	LichessToken string // Please use env var as this is plaintext
	RateLimit    float64
	Timeout      time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	SnapshotBackend   schema.DatabaseBackend
	SnapshotDBConnect string // Please use env var as this is plaintext

	ChartFile string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Preset            string  `mapstructure:"preset"`
	ProgressMode      string  `mapstructure:"progress-mode"`
	GameType          string  `mapstructure:"game-type"`
	Limit             int     `mapstructure:"limit"`
	Workers           int     `mapstructure:"workers"`
	Precision         int     `mapstructure:"precision"`
	Output            string  `mapstructure:"output"`
	OutputFile        string  `mapstructure:"output-file"`
	Width             int     `mapstructure:"width"`
	Color             string  `mapstructure:"color"`
	LogLevel          string  `mapstructure:"log-level"`
	LogFormat         string  `mapstructure:"log-format"`
	LichessURL        string  `mapstructure:"lichess-url"`
	LichessToken      string  `mapstructure:"lichess-token"`
	RateLimit         float64 `mapstructure:"rate-limit"`
	Timeout           string  `mapstructure:"timeout"`
	CacheBackend      string  `mapstructure:"cache-backend"`
	CacheDBConnect    string  `mapstructure:"cache-db-connect"`
	CacheTTL          string  `mapstructure:"cache-ttl"`
	SnapshotBackend   string  `mapstructure:"snapshot-backend"`
	SnapshotDBConnect string  `mapstructure:"snapshot-db-connect"`

	// --- Fields from chartCmd.Flags() ---
	ChartFile string `mapstructure:"chart-file"`

	// --- Fields from thresholds override flag ---
	ThresholdsStr string `mapstructure:"thresholds-override"`

	// --- Custom thresholds from config file, keyed by lower-case tier name ---
	Thresholds map[string]int `mapstructure:"thresholds"`
}

// Clone returns a copy of the Config struct. The threshold table is immutable and shared.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processLichessSettings(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processThresholds(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and snapshot backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := ParseAge(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl '%s': %w", input.CacheTTL, err)
		}
		cfg.CacheTTL = ttl
	}

	// --- Snapshot Backend Validation ---
	cfg.SnapshotBackend = schema.DatabaseBackend(strings.ToLower(input.SnapshotBackend))
	if cfg.SnapshotBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.SnapshotBackend]; !ok {
		return fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql, none", input.SnapshotBackend)
	}
	cfg.SnapshotDBConnect = input.SnapshotDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
		return fmt.Errorf("snapshot-db-connect: %w", err)
	}

	// Cache and snapshots must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.SnapshotBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		snapshotDBPath := cfg.SnapshotDBConnect
		if snapshotDBPath == "" {
			snapshotDBPath = GetSnapshotDBFilePath()
		}
		if cacheDBPath == snapshotDBPath {
			return fmt.Errorf("cache and snapshot storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ChartFile = input.ChartFile

	// Parse color flag
	colors := true
	if input.Color != "" {
		parsed, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		colors = parsed
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Progress Mode and Game Type Validation ---
	cfg.ProgressMode = schema.ProgressMode(strings.ToLower(input.ProgressMode))
	if cfg.ProgressMode == "" {
		cfg.ProgressMode = schema.SubTierProgress
	}
	if _, ok := schema.ValidProgressModes[cfg.ProgressMode]; !ok {
		return fmt.Errorf("invalid progress mode '%s'. must be subtier, tier", input.ProgressMode)
	}

	cfg.GameType = schema.GameType(strings.ToLower(input.GameType))
	if cfg.GameType == "" {
		cfg.GameType = schema.Blitz
	}
	if _, ok := schema.ValidGameTypes[cfg.GameType]; !ok {
		return fmt.Errorf("invalid game type '%s'. must be bullet, blitz, rapid, classical, correspondence, chess960, puzzle", input.GameType)
	}

	// --- 4. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 5. Logging ---
	level, err := logging.ParseLevel(input.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level '%s': %w", input.LogLevel, err)
	}
	cfg.LogLevel = level

	cfg.LogFormat = logging.Format(strings.ToLower(input.LogFormat))
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = logging.ConsoleFormat
	case logging.ConsoleFormat, logging.JSONFormat:
	default:
		return fmt.Errorf("invalid log format '%s'. must be console, json", input.LogFormat)
	}

	return nil
}

// processLichessSettings validates the rating source connection settings.
func processLichessSettings(cfg *Config, input *ConfigRawInput) error {
	cfg.LichessURL = strings.TrimRight(strings.TrimSpace(input.LichessURL), "/")
	if cfg.LichessURL == "" {
		cfg.LichessURL = DefaultLichessURL
	}
	parsed, err := url.Parse(cfg.LichessURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid lichess-url '%s': must be an absolute http(s) URL", input.LichessURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid lichess-url '%s': scheme must be http or https", input.LichessURL)
	}
	cfg.LichessToken = strings.TrimSpace(input.LichessToken)

	cfg.RateLimit = input.RateLimit
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("rate-limit must be positive (received %.2f)", input.RateLimit)
	}

	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		timeout, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout '%s': %w", input.Timeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive (received %s)", input.Timeout)
		}
		cfg.Timeout = timeout
	}
	return nil
}

// processThresholds resolves the preset, applies config-file and flag overrides
// on top of it, and validates the resulting table once.
// The --thresholds-override flag takes precedence over config file settings.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	cfg.Preset = schema.ThresholdPreset(strings.ToLower(input.Preset))
	if cfg.Preset == "" {
		cfg.Preset = schema.ProfilePreset
	}
	if _, ok := schema.ValidThresholdPresets[cfg.Preset]; !ok {
		return fmt.Errorf("invalid preset '%s'. must be profile, chart", input.Preset)
	}

	thresholds := schema.GetPresetThresholds(cfg.Preset)

	fromFile, err := parseTierKeys(input.Thresholds)
	if err != nil {
		return fmt.Errorf("invalid thresholds in config file: %w", err)
	}
	maps.Copy(thresholds, fromFile)

	if input.ThresholdsStr != "" {
		fromFlag, err := ParseThresholdsString(input.ThresholdsStr)
		if err != nil {
			return fmt.Errorf("invalid --thresholds-override format: %w", err)
		}
		maps.Copy(thresholds, fromFlag)
	}

	table, err := algo.NewThresholdTable(thresholds)
	if err != nil {
		return err
	}
	cfg.Thresholds = table
	return nil
}

// ParseTier parses a case-insensitive tier name.
func ParseTier(name string) (schema.Tier, error) {
	tier := schema.Tier(strings.ToUpper(strings.TrimSpace(name)))
	if tier.Rank() < 0 {
		return "", fmt.Errorf("invalid tier '%s', must be pawn, knight, bishop, rook, queen, or king", name)
	}
	return tier, nil
}

func parseTierKeys(raw map[string]int) (map[schema.Tier]int, error) {
	out := make(map[schema.Tier]int, len(raw))
	for name, value := range raw {
		tier, err := ParseTier(name)
		if err != nil {
			return nil, err
		}
		out[tier] = value
	}
	return out, nil
}

// ParseThresholdsString parses a string like "knight:900,bishop:1200"
// into a map of Tier to threshold.
func ParseThresholdsString(s string) (map[schema.Tier]int, error) {
	thresholds := make(map[schema.Tier]int)

	if s == "" {
		return thresholds, nil
	}

	parts := strings.SplitSeq(s, ",")
	for part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		keyValue := strings.Split(part, ":")
		if len(keyValue) != 2 {
			return nil, fmt.Errorf("invalid threshold format '%s', expected 'tier:value'", part)
		}

		tier, err := ParseTier(keyValue[0])
		if err != nil {
			return nil, err
		}

		valueStr := strings.TrimSpace(keyValue[1])
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold value '%s' for tier %s: %w", valueStr, tier, err)
		}

		thresholds[tier] = value
	}

	return thresholds, nil
}
