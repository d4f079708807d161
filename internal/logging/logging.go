// Package logging builds the zerolog logger shared by the CLI, the Lichess
// client and the stores.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel keeps CLI tables free of log noise.
const DefaultLevel = zerolog.WarnLevel

// Format selects how log lines are rendered.
type Format string

const (
	ConsoleFormat Format = "console"
	JSONFormat    Format = "json"
)

// ParseLevel parses a level name. An empty name yields DefaultLevel.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return DefaultLevel, nil
	}
	return zerolog.ParseLevel(name)
}

// New builds a timestamped logger writing to w at the given level.
func New(level zerolog.Level, format Format, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if format == ConsoleFormat {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(level)
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// WithContext attaches the logger to ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger carried by ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
