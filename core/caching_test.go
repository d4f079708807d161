package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/internal/iocache"
	"github.com/pawnrank/pawnrank/internal/lichess"
	"github.com/pawnrank/pawnrank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMemoryCache(t *testing.T) contract.CacheStore {
	t.Helper()
	store, err := iocache.NewCacheStore("core_test_cache", schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCachedSourceServesRepeatLookups(t *testing.T) {
	inner := &lichess.MockRatingSource{}
	inner.On("GetProfile", mock.Anything, "Alpha").Return(schema.RatingProfile{
		Username: "Alpha",
		Ratings:  map[schema.GameType]schema.PerfStats{schema.Blitz: {Rating: 1500, Games: 3}},
	}, nil).Once()

	src := NewCachedSource(inner, newMemoryCache(t), time.Hour)
	ctx := context.Background()

	first, err := src.GetProfile(ctx, "Alpha")
	require.NoError(t, err)
	second, err := src.GetProfile(ctx, "alpha")
	require.NoError(t, err)

	assert.Equal(t, first, second, "usernames share a cache entry regardless of case")
	inner.AssertNumberOfCalls(t, "GetProfile", 1)
}

func TestCachedSourceExpiresEntries(t *testing.T) {
	entries := []schema.RatingHistoryEntry{{Year: 2024, Month: 3, Day: 1, Rating: 1400}}
	inner := &lichess.MockRatingSource{}
	inner.On("GetRatingHistory", mock.Anything, "alpha", schema.Rapid).Return(entries, nil)

	now := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	src := NewCachedSource(inner, newMemoryCache(t), time.Hour)
	src.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := src.GetRatingHistory(ctx, "alpha", schema.Rapid)
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	got, err := src.GetRatingHistory(ctx, "alpha", schema.Rapid)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
	inner.AssertNumberOfCalls(t, "GetRatingHistory", 1)

	now = now.Add(2 * time.Hour)
	_, err = src.GetRatingHistory(ctx, "alpha", schema.Rapid)
	require.NoError(t, err)
	inner.AssertNumberOfCalls(t, "GetRatingHistory", 2)
}

func TestCachedSourceKeysByRequest(t *testing.T) {
	inner := &lichess.MockRatingSource{}
	inner.On("GetTopPlayers", mock.Anything, 10, schema.Blitz).Return([]schema.RankedPlayer{{Username: "a", Rating: 3000}}, nil)
	inner.On("GetTopPlayers", mock.Anything, 10, schema.Bullet).Return([]schema.RankedPlayer{{Username: "b", Rating: 3100}}, nil)

	src := NewCachedSource(inner, newMemoryCache(t), time.Hour)
	ctx := context.Background()

	blitz, err := src.GetTopPlayers(ctx, 10, schema.Blitz)
	require.NoError(t, err)
	bullet, err := src.GetTopPlayers(ctx, 10, schema.Bullet)
	require.NoError(t, err)

	assert.Equal(t, "a", blitz[0].Username)
	assert.Equal(t, "b", bullet[0].Username)
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	inner := &lichess.MockRatingSource{}
	inner.On("GetProfile", mock.Anything, "alpha").Return(schema.RatingProfile{}, lichess.ErrRateLimited).Once()
	inner.On("GetProfile", mock.Anything, "alpha").Return(schema.RatingProfile{Username: "alpha"}, nil).Once()

	src := NewCachedSource(inner, newMemoryCache(t), time.Hour)
	ctx := context.Background()

	_, err := src.GetProfile(ctx, "alpha")
	assert.ErrorIs(t, err, lichess.ErrRateLimited)

	profile, err := src.GetProfile(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", profile.Username)
}

func TestCachedSourceToleratesStoreFailures(t *testing.T) {
	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return(nil, 0, int64(0), errors.New("connection lost"))
	store.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).Return(errors.New("connection lost"))

	inner := &lichess.MockRatingSource{}
	inner.On("GetProfile", mock.Anything, "alpha").Return(schema.RatingProfile{Username: "alpha"}, nil)

	profile, err := NewCachedSource(inner, store, time.Hour).GetProfile(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", profile.Username)
	store.AssertExpectations(t)
}

func TestCachedSourceIgnoresOldVersions(t *testing.T) {
	key := generateCacheKey("profile", "alpha")
	store := &iocache.MockCacheStore{}
	store.On("Get", key).Return([]byte(`{"username":"stale"}`), currentCacheVersion-1, time.Now().Unix(), nil)
	store.On("Set", key, mock.Anything, currentCacheVersion, mock.Anything).Return(nil)

	inner := &lichess.MockRatingSource{}
	inner.On("GetProfile", mock.Anything, "alpha").Return(schema.RatingProfile{Username: "fresh"}, nil)

	profile, err := NewCachedSource(inner, store, time.Hour).GetProfile(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, "fresh", profile.Username)
}

func TestGenerateCacheKey(t *testing.T) {
	assert.Len(t, generateCacheKey("profile", "alpha"), 64)
	assert.Equal(t, generateCacheKey("top", "blitz", "10"), generateCacheKey("top", "blitz", "10"))
	assert.NotEqual(t, generateCacheKey("top", "blitz", "10"), generateCacheKey("top", "blitz", "20"))
}

func TestNewRatingSource(t *testing.T) {
	cfg := testConfig()

	t.Run("context override", func(t *testing.T) {
		src := &lichess.MockRatingSource{}
		got := newRatingSource(WithRatingSource(context.Background(), src), cfg, nil)
		assert.Same(t, src, got)
	})

	t.Run("no cache backend", func(t *testing.T) {
		got := newRatingSource(context.Background(), cfg, noSnapshots())
		assert.IsType(t, &lichess.Client{}, got)
	})

	t.Run("cache backend", func(t *testing.T) {
		cached := cfg.Clone()
		cached.CacheBackend = schema.SQLiteBackend
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetResponseStore").Return(newMemoryCache(t))

		got := newRatingSource(context.Background(), cached, mgr)
		assert.IsType(t, &CachedSource{}, got)
	})
}
