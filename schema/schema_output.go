package schema

import "time"

// PlayerResult is the tier card for a single player in one game type.
type PlayerResult struct {
	Username string   `json:"username"`
	GameType GameType `json:"game_type"`
	Games    int      `json:"games"`
	RatingView
}

// HistoryResult is a player's segmented rating history.
type HistoryResult struct {
	Username    string         `json:"username"`
	GameType    GameType       `json:"game_type"`
	Segments    []ChartSegment `json:"segments"`
	Promotions  int            `json:"promotions"`
	Demotions   int            `json:"demotions"`
	TotalPoints int            `json:"total_points"`
}

// LeaderboardRow is one ranked player in a leaderboard.
type LeaderboardRow struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Title    string `json:"title,omitempty"`
	RatingView
}

// LeaderboardResult is a ranked list of players for a game type.
type LeaderboardResult struct {
	GameType    GameType         `json:"game_type"`
	GeneratedAt time.Time        `json:"generated_at"`
	Rows        []LeaderboardRow `json:"rows"`
}

// ThresholdRow describes one tier of the active threshold table.
type ThresholdRow struct {
	TierBand
	Label string `json:"label"`
}

// CountTransitions returns how many tier changes were promotions and how many were demotions.
func CountTransitions(segments []ChartSegment) (promotions, demotions int) {
	for _, seg := range segments {
		for _, p := range seg.Points {
			if !p.IsTierChange {
				continue
			}
			if p.IsPromoted {
				promotions++
			} else {
				demotions++
			}
		}
	}
	return promotions, demotions
}

// CountPoints returns the number of tagged entries across all segments.
func CountPoints(segments []ChartSegment) int {
	total := 0
	for _, seg := range segments {
		total += len(seg.Points)
	}
	return total
}
