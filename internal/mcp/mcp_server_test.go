package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pawnrank/pawnrank/core"
	"github.com/pawnrank/pawnrank/core/algo"
	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/internal/iocache"
	"github.com/pawnrank/pawnrank/internal/lichess"
	mcp_internal "github.com/pawnrank/pawnrank/internal/mcp"
	"github.com/pawnrank/pawnrank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		Preset:       schema.ProfilePreset,
		Thresholds:   algo.PresetTable(schema.ProfilePreset),
		ProgressMode: schema.SubTierProgress,
		GameType:     schema.Blitz,
		CacheBackend: schema.NoneBackend,
	}
}

func callTool(t *testing.T, ctx context.Context, mgr contract.CacheManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestClassifyRating(t *testing.T) {
	ctx := context.Background()

	t.Run("profile preset", func(t *testing.T) {
		res := callTool(t, ctx, nil, "classify_rating", map[string]any{"rating": 1150.0})
		require.False(t, res.IsError)

		var view schema.RatingView
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &view))
		assert.Equal(t, "KNIGHT I", view.Label)
	})

	t.Run("chart preset", func(t *testing.T) {
		res := callTool(t, ctx, nil, "classify_rating", map[string]any{"rating": 1250.0, "preset": "chart"})
		require.False(t, res.IsError)
		assert.Contains(t, resultText(t, res), `"tier": "BISHOP"`)
		assert.Contains(t, resultText(t, res), `"preset": "chart"`)
	})

	t.Run("missing rating", func(t *testing.T) {
		res := callTool(t, ctx, nil, "classify_rating", map[string]any{})
		assert.True(t, res.IsError, "The response should indicate an error state")
	})

	t.Run("unknown preset", func(t *testing.T) {
		res := callTool(t, ctx, nil, "classify_rating", map[string]any{"rating": 1000.0, "preset": "fide"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "invalid preset")
	})
}

func TestPromotionProgress(t *testing.T) {
	ctx := context.Background()

	res := callTool(t, ctx, nil, "promotion_progress", map[string]any{"rating": 1000.0, "mode": "tier"})
	require.False(t, res.IsError)

	var view schema.RatingView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &view))
	assert.Equal(t, schema.Bishop, view.Progress.NextTier)
	assert.Equal(t, 201, view.Progress.RemainingRating)

	res = callTool(t, ctx, nil, "promotion_progress", map[string]any{"rating": 1000.0, "mode": "sideways"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid mode")
}

func TestSegmentHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("segments", func(t *testing.T) {
		entries := `[{"year":2024,"month":1,"day":1,"rating":880},{"year":2024,"month":1,"day":2,"rating":905},{"year":2024,"month":1,"day":3,"rating":950}]`
		res := callTool(t, ctx, nil, "segment_history", map[string]any{"entries": entries})
		require.False(t, res.IsError)

		var result schema.HistoryResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &result))
		require.Len(t, result.Segments, 2)
		assert.Equal(t, schema.Knight, result.Segments[1].Tier)
		assert.Equal(t, 1, result.Promotions)
	})

	t.Run("malformed json", func(t *testing.T) {
		res := callTool(t, ctx, nil, "segment_history", map[string]any{"entries": "not json"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "JSON array")
	})

	t.Run("invalid date", func(t *testing.T) {
		res := callTool(t, ctx, nil, "segment_history", map[string]any{"entries": `[{"year":2024,"month":2,"day":30,"rating":900}]`})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "segmentation failed")
	})
}

func TestGetPlayerTier(t *testing.T) {
	t.Run("lookup skips snapshots", func(t *testing.T) {
		src := &lichess.MockRatingSource{}
		src.On("GetProfile", mock.Anything, "alpha").Return(schema.RatingProfile{
			Username: "Alpha",
			Ratings:  map[schema.GameType]schema.PerfStats{schema.Rapid: {Rating: 1850, Games: 12}},
		}, nil)
		mgr := &iocache.MockCacheManager{}

		ctx := core.WithRatingSource(context.Background(), src)
		res := callTool(t, ctx, mgr, "get_player_tier", map[string]any{"username": "alpha", "game_type": "rapid"})
		require.False(t, res.IsError, resultText(t, res))

		var result schema.PlayerResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &result))
		assert.Equal(t, "Alpha", result.Username)
		assert.Equal(t, schema.Queen, result.Result.Tier)
		mgr.AssertNotCalled(t, "GetSnapshotStore")
	})

	t.Run("invalid game type", func(t *testing.T) {
		res := callTool(t, context.Background(), nil, "get_player_tier", map[string]any{"username": "alpha", "game_type": "atomic"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "invalid game_type")
	})

	t.Run("source failure", func(t *testing.T) {
		src := &lichess.MockRatingSource{}
		src.On("GetProfile", mock.Anything, "ghost").Return(schema.RatingProfile{}, lichess.ErrNotFound)

		ctx := core.WithRatingSource(context.Background(), src)
		res := callTool(t, ctx, nil, "get_player_tier", map[string]any{"username": "ghost"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "lookup failed")
	})
}
