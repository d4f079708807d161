package algo

import (
	"math"

	"github.com/pawnrank/pawnrank/schema"
)

// Progress computes how far a rating is toward its next promotion target.
// Unknown modes use schema.SubTierProgress. An unknown tier is replaced by the
// rating's own classification.
func Progress(rating int, tier schema.Tier, table *ThresholdTable, mode schema.ProgressMode) schema.PromotionProgress {
	if tier.Rank() < 0 {
		tier = table.Classify(rating)
	}
	if tier.IsTop() {
		return schema.PromotionProgress{
			Percentage:      100,
			RemainingRating: 0,
			NextTier:        schema.King,
			NextSubTier:     1,
		}
	}
	if mode == schema.TierProgress {
		return tierProgress(rating, tier, table)
	}
	return subTierProgress(rating, tier, table)
}

func tierProgress(rating int, tier schema.Tier, table *ThresholdTable) schema.PromotionProgress {
	next := tier.Next()
	lo := table.Threshold(tier)
	hi := table.Threshold(next)
	return schema.PromotionProgress{
		Percentage:      percentage(float64(rating), float64(lo), float64(hi)),
		RemainingRating: gap(float64(hi), rating),
		NextTier:        next,
		NextSubTier:     schema.SubTierCount,
	}
}

func subTierProgress(rating int, tier schema.Tier, table *ThresholdTable) schema.PromotionProgress {
	minRating, maxRating, _ := table.Band(tier)
	width := subWidth(minRating, maxRating)
	idx := subIndex(rating, minRating, width)
	lo := float64(minRating) + float64(idx)*width
	hi := lo + width
	sub := schema.SubTierCount - idx

	progress := schema.PromotionProgress{
		Percentage: percentage(float64(rating), lo, hi),
	}
	if sub > 1 {
		progress.NextTier = tier
		progress.NextSubTier = sub - 1
		progress.RemainingRating = gap(math.Ceil(hi), rating)
		return progress
	}
	next := tier.Next()
	progress.NextTier = next
	progress.NextSubTier = 1
	progress.RemainingRating = gap(float64(table.Threshold(next)), rating)
	return progress
}

// gap is the rating still needed to reach target, floored at 0 and capped at
// math.MaxInt32 so extreme ratings saturate instead of wrapping.
func gap(target float64, rating int) int {
	d := target - float64(rating)
	if d <= 0 {
		return 0
	}
	return int(math.Min(d, math.MaxInt32))
}

// percentage is the clamped share of [lo, hi) covered by v.
func percentage(v, lo, hi float64) float64 {
	if hi <= lo {
		return 100
	}
	pct := (v - lo) / (hi - lo) * 100
	return math.Max(0, math.Min(pct, 100))
}
