// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/pawnrank/pawnrank/schema"
)

// RatingSource fetches already-normalized ratings from an external service.
// This allows the orchestration layer to be tested without the network.
type RatingSource interface {
	// GetProfile returns the player's current ratings for every game type.
	GetProfile(ctx context.Context, username string) (schema.RatingProfile, error)

	// GetRatingHistory returns the dated ratings of one game type with 1-indexed months.
	GetRatingHistory(ctx context.Context, username string, gameType schema.GameType) ([]schema.RatingHistoryEntry, error)

	// GetTopPlayers returns the source's own leaderboard for a game type.
	GetTopPlayers(ctx context.Context, count int, gameType schema.GameType) ([]schema.RankedPlayer, error)
}

// CacheManager defines the interface for managing stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetResponseStore() CacheStore
	GetSnapshotStore() SnapshotStore
}

// CacheStore defines the interface for cached API responses.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Prune(before int64) (int64, error)
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// SnapshotStore defines the interface for persisting tier snapshots.
type SnapshotStore interface {
	// RecordSnapshot stores a snapshot and returns its generated ID.
	RecordSnapshot(record schema.SnapshotRecord) (string, error)

	// ListSnapshots returns a player's snapshots, newest first.
	ListSnapshots(username string, limit int) ([]schema.SnapshotRecord, error)

	// GetAllSnapshots returns every snapshot ordered by time.
	GetAllSnapshots() ([]schema.SnapshotRecord, error)

	// GetStatus returns status information about the snapshot store
	GetStatus() (schema.SnapshotStatus, error)

	// Close closes the underlying connection
	Close() error
}
