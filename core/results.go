package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pawnrank/pawnrank/core/algo"
	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/internal/logging"
	"github.com/pawnrank/pawnrank/schema"
	"golang.org/x/sync/errgroup"
)

// GetPlayerResult fetches a player's profile and classifies the configured game type.
// A snapshot is recorded when the manager has a snapshot store and ctx allows it.
func GetPlayerResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, username string) (schema.PlayerResult, error) {
	if !schema.ValidUsername(username) {
		return schema.PlayerResult{}, fmt.Errorf("invalid username %q", username)
	}

	src := newRatingSource(ctx, cfg, mgr)
	profile, err := src.GetProfile(ctx, username)
	if err != nil {
		return schema.PlayerResult{}, fmt.Errorf("failed to fetch profile of %s: %w", username, err)
	}

	stats := profile.RatingFor(cfg.GameType)
	name := profile.Username
	if name == "" {
		name = username
	}
	result := schema.PlayerResult{
		Username:   name,
		GameType:   cfg.GameType,
		Games:      stats.Games,
		RatingView: algo.View(stats.Rating, cfg.Thresholds, cfg.ProgressMode),
	}

	if !shouldSkipSnapshot(ctx) {
		recordSnapshot(ctx, cfg, mgr, result)
	}
	return result, nil
}

// recordSnapshot persists a player result. Failures are logged, never returned.
func recordSnapshot(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, result schema.PlayerResult) {
	if mgr == nil {
		return
	}
	store := mgr.GetSnapshotStore()
	if store == nil {
		return
	}

	logger := logging.FromContext(ctx)
	id, err := store.RecordSnapshot(schema.SnapshotRecord{
		Username:     schema.NormalizeUsername(result.Username),
		GameType:     string(result.GameType),
		Rating:       int32(result.Rating),
		Tier:         string(result.Result.Tier),
		SubTier:      int32(result.Result.SubTier),
		Percentage:   result.Progress.Percentage,
		Remaining:    int32(result.Progress.RemainingRating),
		NextTier:     string(result.Progress.NextTier),
		NextSubTier:  int32(result.Progress.NextSubTier),
		Preset:       string(cfg.Preset),
		ProgressMode: string(cfg.ProgressMode),
		RecordedAt:   time.Now(),
	})
	if err != nil {
		logger.Warn().Err(err).Str("username", result.Username).Msg("failed to record tier snapshot")
		return
	}
	logger.Debug().Str("snapshot_id", id).Str("username", result.Username).Msg("recorded tier snapshot")
}

// GetHistoryResult fetches and segments a player's rating history for the configured game type.
func GetHistoryResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, username string) (schema.HistoryResult, error) {
	if !schema.ValidUsername(username) {
		return schema.HistoryResult{}, fmt.Errorf("invalid username %q", username)
	}

	src := newRatingSource(ctx, cfg, mgr)
	entries, err := src.GetRatingHistory(ctx, username, cfg.GameType)
	if err != nil {
		return schema.HistoryResult{}, fmt.Errorf("failed to fetch rating history of %s: %w", username, err)
	}
	return BuildHistoryResult(username, cfg.GameType, entries, cfg.Thresholds)
}

// BuildHistoryResult segments entries and summarizes the tier transitions.
func BuildHistoryResult(username string, gameType schema.GameType, entries []schema.RatingHistoryEntry, table *algo.ThresholdTable) (schema.HistoryResult, error) {
	segments, err := algo.Segment(entries, table)
	if err != nil {
		return schema.HistoryResult{}, err
	}
	promotions, demotions := schema.CountTransitions(segments)
	return schema.HistoryResult{
		Username:    username,
		GameType:    gameType,
		Segments:    segments,
		Promotions:  promotions,
		Demotions:   demotions,
		TotalPoints: schema.CountPoints(segments),
	}, nil
}

// GetLeaderboardResult ranks the given usernames. With no usernames it ranks the
// source's own top players for the configured game type.
func GetLeaderboardResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, usernames []string) (schema.LeaderboardResult, error) {
	src := newRatingSource(ctx, cfg, mgr)

	var players []schema.RankedPlayer
	var err error
	if len(usernames) == 0 {
		players, err = src.GetTopPlayers(ctx, cfg.ResultLimit, cfg.GameType)
		if err != nil {
			return schema.LeaderboardResult{}, fmt.Errorf("failed to fetch top %s players: %w", cfg.GameType, err)
		}
	} else {
		players, err = fetchPlayers(ctx, cfg, src, schema.DedupeUsernames(usernames))
		if err != nil {
			return schema.LeaderboardResult{}, err
		}
	}

	return schema.LeaderboardResult{
		GameType:    cfg.GameType,
		GeneratedAt: time.Now(),
		Rows:        algo.BuildLeaderboard(players, cfg.Thresholds, cfg.ProgressMode, cfg.ResultLimit),
	}, nil
}

// fetchPlayers loads profiles concurrently, at most cfg.Workers at a time.
// Players without a rating in the game type are left out.
func fetchPlayers(ctx context.Context, cfg *contract.Config, src contract.RatingSource, usernames []string) ([]schema.RankedPlayer, error) {
	for _, name := range usernames {
		if !schema.ValidUsername(name) {
			return nil, fmt.Errorf("invalid username %q", name)
		}
	}

	profiles := make([]schema.RatingProfile, len(usernames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Workers))
	for i, name := range usernames {
		g.Go(func() error {
			profile, err := src.GetProfile(gctx, name)
			if err != nil {
				return fmt.Errorf("failed to fetch profile of %s: %w", name, err)
			}
			profiles[i] = profile
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	players := make([]schema.RankedPlayer, 0, len(profiles))
	for i, profile := range profiles {
		stats := profile.RatingFor(cfg.GameType)
		if stats.Rating == 0 && stats.Games == 0 {
			logger.Info().Str("username", usernames[i]).Str("game_type", string(cfg.GameType)).Msg("skipping unrated player")
			continue
		}
		name := profile.Username
		if name == "" {
			name = usernames[i]
		}
		players = append(players, schema.RankedPlayer{Username: name, Title: profile.Title, Rating: stats.Rating})
	}
	if len(players) == 0 {
		return nil, errors.New("none of the players has a rating in this game type")
	}
	return players, nil
}
