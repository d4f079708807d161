package algo

import (
	"sort"

	"github.com/pawnrank/pawnrank/schema"
)

// RankPlayers sorts players by rating in descending order, breaking ties by
// username, and returns the top 'limit' players. The input is not modified.
func RankPlayers(players []schema.RankedPlayer, limit int) []schema.RankedPlayer {
	sorted := make([]schema.RankedPlayer, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rating != sorted[j].Rating {
			return sorted[i].Rating > sorted[j].Rating
		}
		return sorted[i].Username < sorted[j].Username
	})
	if limit > 0 && len(sorted) > limit {
		return sorted[:limit]
	}
	return sorted
}

// BuildLeaderboard ranks players and attaches tier, label and progress to each row.
func BuildLeaderboard(players []schema.RankedPlayer, table *ThresholdTable, mode schema.ProgressMode, limit int) []schema.LeaderboardRow {
	ranked := RankPlayers(players, limit)
	rows := make([]schema.LeaderboardRow, len(ranked))
	for i, p := range ranked {
		rows[i] = schema.LeaderboardRow{
			Rank:       i + 1,
			Username:   p.Username,
			Title:      p.Title,
			RatingView: View(p.Rating, table, mode),
		}
	}
	return rows
}

// View classifies a rating and computes its label and progress in one step.
func View(rating int, table *ThresholdTable, mode schema.ProgressMode) schema.RatingView {
	result := table.Result(rating)
	label, _ := Label(result) // Result always yields a sub-tier in 1..5
	return schema.RatingView{
		Rating:   rating,
		Result:   result,
		Label:    label,
		Progress: Progress(rating, result.Tier, table, mode),
	}
}
