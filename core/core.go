// Package core orchestrates rating lookups, tier classification and output.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pawnrank/pawnrank/core/algo"
	"github.com/pawnrank/pawnrank/internal/chart"
	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/internal/logging"
	"github.com/pawnrank/pawnrank/schema"
)

// ExecutorFunc defines the function signature for commands that look up players.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, args []string) error

// ExecuteClassify classifies raw ratings and prints their tiers.
func ExecuteClassify(_ context.Context, cfg *contract.Config, ratings []float64) error {
	return out.WriteRatings(GetRatingViews(cfg, ratings), cfg, false)
}

// ExecuteProgress classifies raw ratings and prints their promotion progress.
func ExecuteProgress(_ context.Context, cfg *contract.Config, ratings []float64) error {
	return out.WriteRatings(GetRatingViews(cfg, ratings), cfg, true)
}

// ExecuteThresholds prints every band of the active threshold table.
func ExecuteThresholds(_ context.Context, cfg *contract.Config) error {
	return out.WriteThresholds(GetThresholdRows(cfg), cfg)
}

// ExecutePlayer looks up one player's current tier, records a snapshot when a
// snapshot store is configured, and prints the result.
func ExecutePlayer(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, args []string) error {
	if len(args) != 1 {
		return errors.New("exactly one username is required")
	}
	result, err := GetPlayerResult(ctx, cfg, mgr, args[0])
	if err != nil {
		return err
	}
	return out.WritePlayer(result, cfg)
}

// ExecuteHistory fetches and segments a player's rating history.
func ExecuteHistory(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, args []string) error {
	if len(args) != 1 {
		return errors.New("exactly one username is required")
	}
	start := time.Now()
	result, err := GetHistoryResult(ctx, cfg, mgr, args[0])
	if err != nil {
		return err
	}
	return out.WriteHistory(result, cfg, time.Since(start))
}

// ExecuteLeaderboard ranks the given players, or the source's top players when none are given.
func ExecuteLeaderboard(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, args []string) error {
	start := time.Now()
	result, err := GetLeaderboardResult(ctx, cfg, mgr, args)
	if err != nil {
		return err
	}
	return out.WriteLeaderboard(result, cfg, time.Since(start))
}

// ExecuteChart renders a player's segmented rating history to a PNG file.
func ExecuteChart(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, args []string) error {
	if len(args) != 1 {
		return errors.New("exactly one username is required")
	}
	result, err := GetHistoryResult(ctx, cfg, mgr, args[0])
	if err != nil {
		return err
	}

	path := cfg.ChartFile
	if path == "" {
		path = fmt.Sprintf("%s_%s.png", schema.NormalizeUsername(result.Username), result.GameType)
	}
	title := fmt.Sprintf("%s %s rating", result.Username, result.GameType)
	if err := chart.RenderFile(result.Segments, title, chart.DefaultPalette, path); err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Str("file", path).Int("segments", len(result.Segments)).Msg("chart written")
	_, err = fmt.Fprintf(out.Stderr(), "💾 Wrote chart with %d segments to %s\n", len(result.Segments), path)
	return err
}

// ExecuteSnapshots prints the recorded snapshots of one player.
func ExecuteSnapshots(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, args []string) error {
	if len(args) != 1 {
		return errors.New("exactly one username is required")
	}
	store := mgr.GetSnapshotStore()
	if store == nil {
		return errors.New("snapshot store is not configured; set --snapshot-backend")
	}
	records, err := store.ListSnapshots(args[0], cfg.ResultLimit)
	if err != nil {
		return err
	}
	return out.WriteSnapshots(records, cfg)
}

// GetRatingViews normalizes raw ratings and classifies each one.
func GetRatingViews(cfg *contract.Config, ratings []float64) []schema.RatingView {
	views := make([]schema.RatingView, len(ratings))
	for i, r := range ratings {
		views[i] = algo.View(algo.NormalizeRating(r), cfg.Thresholds, cfg.ProgressMode)
	}
	return views
}

// GetThresholdRows describes every tier band of the active table.
func GetThresholdRows(cfg *contract.Config) []schema.ThresholdRow {
	bands := cfg.Thresholds.Bands()
	rows := make([]schema.ThresholdRow, len(bands))
	for i, band := range bands {
		rows[i] = schema.ThresholdRow{TierBand: band, Label: string(band.Tier)}
	}
	return rows
}
