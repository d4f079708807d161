package schema

import "time"

// RatingProfile is the source-agnostic view of a player's ratings.
type RatingProfile struct {
	Username string                 `json:"username"`
	Title    string                 `json:"title,omitempty"`
	Ratings  map[GameType]PerfStats `json:"ratings"`
}

// PerfStats is the rating and game count for one game type.
type PerfStats struct {
	Rating      int  `json:"rating"`
	Games       int  `json:"games"`
	Provisional bool `json:"provisional"`
}

// RatingFor returns the stats for a game type. Missing game types yield zero stats.
func (p RatingProfile) RatingFor(gameType GameType) PerfStats {
	if p.Ratings == nil {
		return PerfStats{}
	}
	return p.Ratings[gameType]
}

// RankedPlayer is one entry of a source leaderboard.
type RankedPlayer struct {
	Username string `json:"username"`
	Title    string `json:"title,omitempty"`
	Rating   int    `json:"rating"`
}

// SnapshotRecord represents a row from the pawnrank_tier_snapshots table.
type SnapshotRecord struct {
	SnapshotID   string
	Username     string
	GameType     string
	Rating       int32
	Tier         string
	SubTier      int32
	Percentage   float64
	Remaining    int32
	NextTier     string
	NextSubTier  int32
	Preset       string
	ProgressMode string
	RecordedAt   time.Time
}
