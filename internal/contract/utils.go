package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pawnrank/pawnrank/schema"
	"github.com/rs/zerolog/log"
)

// Color variables for console output, keyed by tier color key.
var tierColors = map[string]*color.Color{
	"pawn":   color.New(color.FgWhite),
	"knight": color.New(color.FgGreen),
	"bishop": color.New(color.FgCyan),
	"rook":   color.New(color.FgBlue, color.Bold),
	"queen":  color.New(color.FgMagenta, color.Bold),
	"king":   color.New(color.FgYellow, color.Bold),
}

// TierColor returns the console color of a tier.
func TierColor(tier schema.Tier) *color.Color {
	if c, ok := tierColors[tier.ColorKey()]; ok {
		return c
	}
	return color.New(color.Reset)
}

// GetColorLabel renders a label in its tier's console color.
func GetColorLabel(label string, tier schema.Tier) string {
	return TierColor(tier).Sprint(label)
}

// ProgressBar renders a percentage as a fixed-width bar like "[####------]".
func ProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(pct / 100 * float64(width))
	filled = max(0, min(filled, width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error through the global logger and exits the program.
func LogFatal(msg string, err error) {
	log.Fatal().Err(err).Msg(msg)
}

// LogWarn logs a warning message through the global logger.
func LogWarn(msg string, err error) {
	log.Warn().Err(err).Msg(msg)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for response caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pawnrank_cache.db"
	}
	return filepath.Join(homeDir, ".pawnrank_cache.db")
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for tier snapshots.
func GetSnapshotDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pawnrank_snapshots.db"
	}
	return filepath.Join(homeDir, ".pawnrank_snapshots.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis and one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
