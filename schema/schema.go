// Package schema has models and constants shared by every part of pawnrank.
package schema

// TierResult is the classification of a rating.
type TierResult struct {
	Tier    Tier `json:"tier"`
	SubTier int  `json:"sub_tier"` // 1 (closest to promotion) .. 5 (just entered)
}

// PromotionProgress describes how far a rating is through its current band
// and what it takes to reach the next target.
type PromotionProgress struct {
	Percentage      float64 `json:"percentage"`       // 0-100
	RemainingRating int     `json:"remaining_rating"` // never negative
	NextTier        Tier    `json:"next_tier"`
	NextSubTier     int     `json:"next_sub_tier"`
}

// TierBand is the closed rating range a tier covers, plus its five sub-ranges.
type TierBand struct {
	Tier      Tier          `json:"tier"`
	Min       int           `json:"min"`
	Max       int           `json:"max"` // meaningless when Unbounded
	Unbounded bool          `json:"unbounded"`
	SubRanges []SubTierBand `json:"sub_ranges"`
}

// SubTierBand is one fifth of a bounded tier band.
type SubTierBand struct {
	SubTier int `json:"sub_tier"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

// RatingView bundles everything the presentation layer needs for one rating.
type RatingView struct {
	Rating   int               `json:"rating"`
	Result   TierResult        `json:"result"`
	Label    string            `json:"label"`
	Progress PromotionProgress `json:"progress"`
}
