// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pawnrank/pawnrank/internal/contract"
)

// NewMCPServer initializes and configures the pawnrank MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Pawnrank Tier Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: classify_rating ---
	s.AddTool(mcp.NewTool("classify_rating",
		mcp.WithDescription("Classify a chess rating into a tier and sub-tier, e.g. KNIGHT II."),
		mcp.WithNumber("rating", mcp.Description("The rating to classify."), mcp.Required()),
		mcp.WithString("preset", mcp.Description("Threshold preset. Defaults to the server's configuration."), mcp.Enum("profile", "chart")),
	), h.handleClassifyRating)

	// --- 2. Tool: promotion_progress ---
	s.AddTool(mcp.NewTool("promotion_progress",
		mcp.WithDescription("Compute how far a rating is toward its next promotion target."),
		mcp.WithNumber("rating", mcp.Description("The rating to evaluate."), mcp.Required()),
		mcp.WithString("mode", mcp.Description("Progress mode: subtier targets the next sub-tier, tier targets the next tier."), mcp.Enum("subtier", "tier")),
		mcp.WithString("preset", mcp.Description("Threshold preset."), mcp.Enum("profile", "chart")),
	), h.handlePromotionProgress)

	// --- 3. Tool: segment_history ---
	s.AddTool(mcp.NewTool("segment_history",
		mcp.WithDescription("Split a dated rating history into runs of consecutive points sharing a tier."),
		mcp.WithString("entries", mcp.Description(`JSON array of {"year","month","day","rating"} objects with 1-indexed months.`), mcp.Required()),
		mcp.WithString("preset", mcp.Description("Threshold preset. Defaults to the server's configuration."), mcp.Enum("profile", "chart")),
	), h.handleSegmentHistory)

	// --- 4. Tool: get_player_tier ---
	s.AddTool(mcp.NewTool("get_player_tier",
		mcp.WithDescription("Look up a Lichess player's current rating and tier for one game type."),
		mcp.WithString("username", mcp.Description("Lichess username."), mcp.Required()),
		mcp.WithString("game_type", mcp.Description("Game type. Defaults to blitz."),
			mcp.Enum("bullet", "blitz", "rapid", "classical", "correspondence", "chess960", "puzzle")),
	), h.handleGetPlayerTier)

	return s
}

// StartMCPServer starts the pawnrank MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
