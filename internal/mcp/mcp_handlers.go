package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pawnrank/pawnrank/core"
	"github.com/pawnrank/pawnrank/core/algo"
	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// configFor clones the base config and applies the optional preset argument.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("preset", ""); p != "" {
		preset := schema.ThresholdPreset(p)
		if _, ok := schema.ValidThresholdPresets[preset]; !ok {
			return nil, fmt.Errorf("invalid preset %q", p)
		}
		cfg.Preset = preset
		cfg.Thresholds = algo.PresetTable(preset)
	}
	if cfg.Thresholds == nil {
		cfg.Thresholds = algo.PresetTable(schema.ProfilePreset)
	}
	return cfg, nil
}

// ratingView is the JSON answer of the rating tools.
type ratingView struct {
	schema.RatingView
	Preset schema.ThresholdPreset `json:"preset"`
}

func (h *toolHandler) handleClassifyRating(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rating, err := request.RequireFloat("rating")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	view := core.GetRatingViews(cfg, []float64{rating})[0]
	return jsonResult(ratingView{RatingView: view, Preset: cfg.Preset})
}

func (h *toolHandler) handlePromotionProgress(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rating, err := request.RequireFloat("rating")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if m := request.GetString("mode", ""); m != "" {
		mode := schema.ProgressMode(m)
		if _, ok := schema.ValidProgressModes[mode]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid mode %q", m)), nil
		}
		cfg.ProgressMode = mode
	}

	view := core.GetRatingViews(cfg, []float64{rating})[0]
	return jsonResult(ratingView{RatingView: view, Preset: cfg.Preset})
}

func (h *toolHandler) handleSegmentHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("entries")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var entries []schema.RatingHistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("entries must be a JSON array: %v", err)), nil
	}
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := core.BuildHistoryResult("", cfg.GameType, entries, cfg.Thresholds)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("segmentation failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetPlayerTier(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, err := request.RequireString("username")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if g := request.GetString("game_type", ""); g != "" {
		gameType := schema.GameType(g)
		if _, ok := schema.ValidGameTypes[gameType]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid game_type %q", g)), nil
		}
		cfg.GameType = gameType
	}

	result, err := core.GetPlayerResult(core.WithSkipSnapshot(ctx), cfg, h.mgr, username)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return jsonResult(result)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
