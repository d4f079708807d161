package core

import (
	"context"

	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/internal/lichess"
	"github.com/pawnrank/pawnrank/internal/logging"
	"github.com/pawnrank/pawnrank/schema"
)

// newRatingSource returns the source for this call: an override from ctx, or a
// Lichess client wrapped in the response cache when one is configured.
func newRatingSource(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) contract.RatingSource {
	if src, ok := ratingSourceFrom(ctx); ok {
		return src
	}

	var src contract.RatingSource = lichess.NewClient(lichess.Options{
		BaseURL:   cfg.LichessURL,
		Token:     cfg.LichessToken,
		RateLimit: cfg.RateLimit,
		Timeout:   cfg.Timeout,
		Logger:    *logging.FromContext(ctx),
	})

	if mgr == nil || cfg.CacheBackend == schema.NoneBackend {
		return src
	}
	if store := mgr.GetResponseStore(); store != nil {
		src = NewCachedSource(src, store, cfg.CacheTTL)
	}
	return src
}
