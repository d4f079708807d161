//go:build basic

// Package integration contains integration tests for pawnrank.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pawnrank/pawnrank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassifyCommand checks tier labels at band edges of both presets.
func TestClassifyCommand(t *testing.T) {
	home := t.TempDir()

	out, err := runPawnrank(t, home, nil, "classify", "400", "1150", "2101", "--output", "json", "--color", "no")
	require.NoError(t, err)

	var views []schema.RatingView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 3)
	assert.Equal(t, "PAWN V", views[0].Label)
	assert.Equal(t, "KNIGHT I", views[1].Label)
	assert.Equal(t, "KING I", views[2].Label)

	out, err = runPawnrank(t, home, nil, "classify", "1150", "--preset", "chart", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "KNIGHT")
}

// TestVersionCommand checks both version renderings.
func TestVersionCommand(t *testing.T) {
	home := t.TempDir()

	out, err := runPawnrank(t, home, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pawnrank dev")

	out, err = runPawnrank(t, home, nil, "version", "--output", "json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info["version"])
	assert.NotEmpty(t, info["runtime"])
}

// TestInvalidConfigFails checks that validation errors exit non-zero.
func TestInvalidConfigFails(t *testing.T) {
	home := t.TempDir()

	_, err := runPawnrank(t, home, nil, "classify", "1000", "--thresholds-override", "knight:300")
	assert.Error(t, err, "thresholds must stay increasing")

	_, err = runPawnrank(t, home, nil, "progress", "1000", "--progress-mode", "sideways")
	assert.Error(t, err)
}

// TestPlayerWithSnapshots looks up players against a fake Lichess and
// checks the recorded snapshots.
func TestPlayerWithSnapshots(t *testing.T) {
	home := t.TempDir()
	srv := fakeLichess(t)
	env := []string{
		"PAWNRANK_LICHESS_URL=" + srv.URL,
		"PAWNRANK_CACHE_BACKEND=sqlite",
		"PAWNRANK_CACHE_DB_CONNECT=" + filepath.Join(home, "cache.db"),
		"PAWNRANK_SNAPSHOT_BACKEND=sqlite",
		"PAWNRANK_SNAPSHOT_DB_CONNECT=" + filepath.Join(home, "snapshots.db"),
	}

	out, err := runPawnrank(t, home, env, "player", "alice", "--output", "json")
	require.NoError(t, err)
	var player schema.PlayerResult
	require.NoError(t, json.Unmarshal([]byte(out), &player))
	assert.Equal(t, "KNIGHT I", player.Label)

	_, err = runPawnrank(t, home, env, "player", "bob")
	require.NoError(t, err)

	out, err = runPawnrank(t, home, env, "snapshots", "list", "alice", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "KNIGHT")

	out, err = runPawnrank(t, home, env, "snapshots", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	exportFile := filepath.Join(home, "snapshots.parquet")
	_, err = runPawnrank(t, home, env, "snapshots", "export", "--output-file", exportFile)
	require.NoError(t, err)
	assert.FileExists(t, exportFile)

	_, err = runPawnrank(t, home, env, "cache", "status")
	require.NoError(t, err)
	_, err = runPawnrank(t, home, env, "cache", "prune", "--older-than", "0s")
	require.NoError(t, err)

	_, err = runPawnrank(t, home, env, "player", "nobody")
	assert.Error(t, err)
}

// TestHistoryAndChart segments the fake history and renders it.
func TestHistoryAndChart(t *testing.T) {
	home := t.TempDir()
	srv := fakeLichess(t)
	env := []string{"PAWNRANK_LICHESS_URL=" + srv.URL, "PAWNRANK_CACHE_BACKEND=none"}

	out, err := runPawnrank(t, home, env, "history", "alice", "--output", "json")
	require.NoError(t, err)
	var history schema.HistoryResult
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	assert.Equal(t, 4, history.TotalPoints)
	assert.Len(t, history.Segments, 4, "PAWN, KNIGHT, BISHOP and KNIGHT again with the profile preset")

	chartFile := filepath.Join(home, "alice.png")
	_, err = runPawnrank(t, home, env, "chart", "alice", "--chart-file", chartFile)
	require.NoError(t, err)
	info, err := os.Stat(chartFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = runPawnrank(t, home, env, "leaderboard", "alice", "bob", "--output", "csv")
	require.NoError(t, err)
}
