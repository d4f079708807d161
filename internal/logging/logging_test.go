package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLevel, level)

	level, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(zerolog.InfoLevel, JSONFormat, &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("username", "alice").Msg("fetched")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "alice", entry["username"])
	assert.Equal(t, "fetched", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := New(zerolog.WarnLevel, ConsoleFormat, &buf)
	logger.Warn().Msg("slow response")
	assert.Contains(t, buf.String(), "slow response")
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(zerolog.InfoLevel, JSONFormat, &buf)
	ctx := WithContext(context.Background(), logger)

	FromContext(ctx).Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")

	// A bare context yields a usable logger.
	FromContext(context.Background()).Info().Msg("dropped")
}
