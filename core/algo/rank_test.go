package algo

import (
	"testing"

	"github.com/pawnrank/pawnrank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankPlayers(t *testing.T) {
	players := []schema.RankedPlayer{
		{Username: "carol", Rating: 1500},
		{Username: "alice", Rating: 2200},
		{Username: "bob", Rating: 1500},
		{Username: "dave", Rating: 800},
	}

	ranked := RankPlayers(players, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "alice", ranked[0].Username)
	assert.Equal(t, "bob", ranked[1].Username)
	assert.Equal(t, "carol", ranked[2].Username)

	// Input order untouched.
	assert.Equal(t, "carol", players[0].Username)

	assert.Len(t, RankPlayers(players, 10), 4)
	assert.Len(t, RankPlayers(players, 0), 4)
	assert.Empty(t, RankPlayers(nil, 5))
}

func TestBuildLeaderboard(t *testing.T) {
	table := profileTable(t)
	rows := BuildLeaderboard([]schema.RankedPlayer{
		{Username: "low", Rating: 1150},
		{Username: "top", Rating: 2300, Title: "GM"},
	}, table, schema.SubTierProgress, 10)

	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "top", rows[0].Username)
	assert.Equal(t, "GM", rows[0].Title)
	assert.Equal(t, "KING I", rows[0].Label)
	assert.Equal(t, 100.0, rows[0].Progress.Percentage)

	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, "KNIGHT I", rows[1].Label)
	assert.Equal(t, 51, rows[1].Progress.RemainingRating)
}

func TestView(t *testing.T) {
	v := View(1201, profileTable(t), schema.TierProgress)
	assert.Equal(t, 1201, v.Rating)
	assert.Equal(t, schema.TierResult{Tier: schema.Bishop, SubTier: 5}, v.Result)
	assert.Equal(t, "BISHOP V", v.Label)
	assert.Equal(t, schema.Rook, v.Progress.NextTier)
	assert.Equal(t, 300, v.Progress.RemainingRating)
}
