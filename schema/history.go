package schema

// RatingHistoryEntry is one dated rating observation. Month is 1-indexed.
type RatingHistoryEntry struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Day    int     `json:"day"`
	Rating float64 `json:"rating"`
}

// Before reports whether e falls on an earlier calendar day than other.
func (e RatingHistoryEntry) Before(other RatingHistoryEntry) bool {
	if e.Year != other.Year {
		return e.Year < other.Year
	}
	if e.Month != other.Month {
		return e.Month < other.Month
	}
	return e.Day < other.Day
}

// SameDay reports whether e and other share a calendar day.
func (e RatingHistoryEntry) SameDay(other RatingHistoryEntry) bool {
	return e.Year == other.Year && e.Month == other.Month && e.Day == other.Day
}

// TaggedEntry is a history entry annotated with tier-transition facts.
type TaggedEntry struct {
	RatingHistoryEntry
	PreviousRating float64 `json:"previous_rating"`
	Tier           Tier    `json:"tier"`
	IsTierChange   bool    `json:"is_tier_change"`
	IsPromoted     bool    `json:"is_promoted"`
}

// ChartSegment is a maximal run of consecutive tagged entries sharing one tier.
type ChartSegment struct {
	Points     []TaggedEntry `json:"points"`
	Tier       Tier          `json:"tier"`
	ColorKey   string        `json:"color_key"`
	StartIndex int           `json:"start_index"`
}

// FirstPoint returns the earliest point in the segment.
func (s ChartSegment) FirstPoint() TaggedEntry {
	return s.Points[0]
}

// LastPoint returns the latest point in the segment.
func (s ChartSegment) LastPoint() TaggedEntry {
	return s.Points[len(s.Points)-1]
}
