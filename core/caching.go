package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/internal/logging"
	"github.com/pawnrank/pawnrank/schema"
	"github.com/rs/zerolog"
)

// currentCacheVersion defines the version of the cached response encoding
const currentCacheVersion = 1

// CachedSource serves rating lookups from a CacheStore and falls back to the
// wrapped source on a miss. Cache failures never fail a lookup.
type CachedSource struct {
	inner contract.RatingSource
	store contract.CacheStore
	ttl   time.Duration
	now   func() time.Time
}

var _ contract.RatingSource = &CachedSource{} // Compile-time check

// NewCachedSource wraps inner with a response cache. Entries older than ttl are refetched.
func NewCachedSource(inner contract.RatingSource, store contract.CacheStore, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, store: store, ttl: ttl, now: time.Now}
}

// GetProfile implements contract.RatingSource.
func (c *CachedSource) GetProfile(ctx context.Context, username string) (schema.RatingProfile, error) {
	key := generateCacheKey("profile", schema.NormalizeUsername(username))
	return cached(ctx, c, key, func() (schema.RatingProfile, error) {
		return c.inner.GetProfile(ctx, username)
	})
}

// GetRatingHistory implements contract.RatingSource.
func (c *CachedSource) GetRatingHistory(ctx context.Context, username string, gameType schema.GameType) ([]schema.RatingHistoryEntry, error) {
	key := generateCacheKey("history", schema.NormalizeUsername(username), string(gameType))
	return cached(ctx, c, key, func() ([]schema.RatingHistoryEntry, error) {
		return c.inner.GetRatingHistory(ctx, username, gameType)
	})
}

// GetTopPlayers implements contract.RatingSource.
func (c *CachedSource) GetTopPlayers(ctx context.Context, count int, gameType schema.GameType) ([]schema.RankedPlayer, error) {
	key := generateCacheKey("top", string(gameType), strconv.Itoa(count))
	return cached(ctx, c, key, func() ([]schema.RankedPlayer, error) {
		return c.inner.GetTopPlayers(ctx, count, gameType)
	})
}

// cached returns the cached value for key, or computes and stores it.
func cached[T any](ctx context.Context, c *CachedSource, key string, fetch func() (T, error)) (T, error) {
	logger := logging.FromContext(ctx)

	if result, ok := checkCacheHit[T](c, key, logger); ok {
		return result, nil
	}

	result, err := fetch()
	if err != nil {
		return result, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := c.store.Set(key, data, currentCacheVersion, c.now().Unix()); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to store cached response")
		}
	}
	return result, nil
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit[T any](c *CachedSource, key string, logger *zerolog.Logger) (T, bool) {
	var result T
	data, version, ts, err := c.store.Get(key)
	if err != nil {
		return result, false // Cache miss
	}

	if version != currentCacheVersion || c.now().Sub(time.Unix(ts, 0)) > c.ttl {
		return result, false // Stale or version mismatch
	}
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("discarding unreadable cached response")
		return result, false
	}
	logger.Debug().Str("key", key).Msg("cache hit")
	return result, true
}

// generateCacheKey creates a unique key from the request parts
func generateCacheKey(parts ...string) string {
	key := strings.Join(parts, ":")
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
