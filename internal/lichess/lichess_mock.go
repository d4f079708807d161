package lichess

import (
	"context"

	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/schema"
	"github.com/stretchr/testify/mock"
)

// MockRatingSource is a mock implementation of RatingSource for testing.
type MockRatingSource struct {
	mock.Mock
}

var (
	_ contract.RatingSource = &MockRatingSource{} // Compile-time check
	_ contract.RatingSource = &Client{}           // Compile-time check
)

// GetProfile implements the RatingSource interface.
func (m *MockRatingSource) GetProfile(ctx context.Context, username string) (schema.RatingProfile, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(schema.RatingProfile), args.Error(1)
}

// GetRatingHistory implements the RatingSource interface.
func (m *MockRatingSource) GetRatingHistory(ctx context.Context, username string, gameType schema.GameType) ([]schema.RatingHistoryEntry, error) {
	args := m.Called(ctx, username, gameType)
	entries, _ := args.Get(0).([]schema.RatingHistoryEntry)
	return entries, args.Error(1)
}

// GetTopPlayers implements the RatingSource interface.
func (m *MockRatingSource) GetTopPlayers(ctx context.Context, count int, gameType schema.GameType) ([]schema.RankedPlayer, error) {
	args := m.Called(ctx, count, gameType)
	players, _ := args.Get(0).([]schema.RankedPlayer)
	return players, args.Error(1)
}
