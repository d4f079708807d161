// Package algo holds the pure tier logic: classification, sub-tiers,
// promotion progress and rating-history segmentation.
package algo

import (
	"fmt"
	"math"

	"github.com/pawnrank/pawnrank/schema"
)

// ThresholdTable maps each tier to its minimum qualifying rating.
// It is immutable once built and safe for concurrent use.
type ThresholdTable struct {
	thresholds [6]int // indexed by schema.Tier.Rank()
}

// NewThresholdTable validates a tier->threshold map. Every tier must be present
// exactly once, thresholds must strictly increase from PAWN to KING, and every
// threshold must fit in an int32 (KING's open band is reported up to math.MaxInt32).
func NewThresholdTable(thresholds map[schema.Tier]int) (*ThresholdTable, error) {
	if len(thresholds) == 0 {
		return nil, &ConfigurationError{Reason: "threshold table is empty"}
	}
	for tier := range thresholds {
		if tier.Rank() < 0 {
			return nil, &ConfigurationError{Tier: tier, Reason: "unknown tier"}
		}
	}
	table := &ThresholdTable{}
	for i, tier := range schema.AllTiers {
		value, ok := thresholds[tier]
		if !ok {
			return nil, &ConfigurationError{Tier: tier, Reason: "missing threshold"}
		}
		if value < math.MinInt32 || value >= math.MaxInt32 {
			return nil, &ConfigurationError{
				Tier:   tier,
				Reason: fmt.Sprintf("threshold %d outside [%d, %d)", value, math.MinInt32, math.MaxInt32),
			}
		}
		if i > 0 && value <= table.thresholds[i-1] {
			return nil, &ConfigurationError{
				Tier:   tier,
				Reason: fmt.Sprintf("threshold %d must be greater than %s threshold %d", value, schema.AllTiers[i-1], table.thresholds[i-1]),
			}
		}
		table.thresholds[i] = value
	}
	return table, nil
}

// PresetTable returns the validated table for a built-in preset.
func PresetTable(preset schema.ThresholdPreset) *ThresholdTable {
	table, err := NewThresholdTable(schema.GetPresetThresholds(preset))
	if err != nil {
		panic(err) // built-in presets are always valid
	}
	return table
}

// Threshold returns the minimum rating of a tier. Unknown tiers report PAWN's threshold.
func (t *ThresholdTable) Threshold(tier schema.Tier) int {
	return t.thresholds[rankOrPawn(tier)]
}

// Thresholds returns a fresh tier->threshold map.
func (t *ThresholdTable) Thresholds() map[schema.Tier]int {
	out := make(map[schema.Tier]int, len(schema.AllTiers))
	for i, tier := range schema.AllTiers {
		out[tier] = t.thresholds[i]
	}
	return out
}

// Classify returns the highest tier whose threshold is at or below the rating.
// Ratings below every threshold fall back to PAWN.
func (t *ThresholdTable) Classify(rating int) schema.Tier {
	for i := len(schema.AllTiers) - 1; i >= 0; i-- {
		if t.thresholds[i] <= rating {
			return schema.AllTiers[i]
		}
	}
	return schema.Pawn
}

// Classify is the package-level form of (*ThresholdTable).Classify.
func Classify(rating int, table *ThresholdTable) schema.Tier {
	return table.Classify(rating)
}

// Band returns the closed range [min, max] of a tier. KING is unbounded.
func (t *ThresholdTable) Band(tier schema.Tier) (minRating, maxRating int, bounded bool) {
	r := rankOrPawn(tier)
	if r == len(schema.AllTiers)-1 {
		return t.thresholds[r], math.MaxInt32, false
	}
	return t.thresholds[r], t.thresholds[r+1] - 1, true
}

// subWidth is the float width of one sub-range of a bounded band.
func subWidth(minRating, maxRating int) float64 {
	return (float64(maxRating) - float64(minRating) + 1) / schema.SubTierCount
}

// subIndex is the zero-based sub-range a rating falls into, 0 being the lowest.
func subIndex(rating, minRating int, width float64) int {
	idx := math.Floor((float64(rating) - float64(minRating)) / width)
	return int(math.Max(0, math.Min(idx, schema.SubTierCount-1)))
}

// SubTierOf returns the 1..5 sub-tier of a rating inside a tier, 1 being closest
// to promotion. Ratings above the band clamp to 1, ratings below clamp to 5.
// KING is always sub-tier 1.
func (t *ThresholdTable) SubTierOf(rating int, tier schema.Tier) int {
	minRating, maxRating, bounded := t.Band(tier)
	if !bounded {
		return 1
	}
	return schema.SubTierCount - subIndex(rating, minRating, subWidth(minRating, maxRating))
}

// Result classifies a rating and computes its sub-tier.
func (t *ThresholdTable) Result(rating int) schema.TierResult {
	tier := t.Classify(rating)
	return schema.TierResult{Tier: tier, SubTier: t.SubTierOf(rating, tier)}
}

// SubRanges returns the integer bounds of the five sub-ranges of a tier, best first.
// KING has a single open-ended sub-range.
func (t *ThresholdTable) SubRanges(tier schema.Tier) []schema.SubTierBand {
	minRating, maxRating, bounded := t.Band(tier)
	if !bounded {
		return []schema.SubTierBand{{SubTier: 1, Min: minRating, Max: maxRating}}
	}
	width := subWidth(minRating, maxRating)
	out := make([]schema.SubTierBand, 0, schema.SubTierCount)
	for idx := schema.SubTierCount - 1; idx >= 0; idx-- {
		lo := minRating + int(math.Ceil(float64(idx)*width))
		hi := minRating + int(math.Ceil(float64(idx+1)*width)) - 1
		out = append(out, schema.SubTierBand{SubTier: schema.SubTierCount - idx, Min: lo, Max: hi})
	}
	return out
}

// Bands describes every tier of the table, lowest first.
func (t *ThresholdTable) Bands() []schema.TierBand {
	out := make([]schema.TierBand, 0, len(schema.AllTiers))
	for _, tier := range schema.AllTiers {
		minRating, maxRating, bounded := t.Band(tier)
		out = append(out, schema.TierBand{
			Tier:      tier,
			Min:       minRating,
			Max:       maxRating,
			Unbounded: !bounded,
			SubRanges: t.SubRanges(tier),
		})
	}
	return out
}

var romanNumerals = [schema.SubTierCount]string{"I", "II", "III", "IV", "V"}

// RomanNumeral renders a sub-tier 1..5 as I..V.
func RomanNumeral(subTier int) (string, error) {
	if subTier < 1 || subTier > schema.SubTierCount {
		return "", fmt.Errorf("%w: %d", ErrInvalidSubTier, subTier)
	}
	return romanNumerals[subTier-1], nil
}

// Label renders a result as "KNIGHT I".
func Label(result schema.TierResult) (string, error) {
	numeral, err := RomanNumeral(result.SubTier)
	if err != nil {
		return "", err
	}
	return string(result.Tier) + " " + numeral, nil
}

// NormalizeRating converts a raw rating to an integer. NaN and infinities
// become 0; everything else is rounded and clamped to the int32 range.
func NormalizeRating(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	v = math.Round(v)
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(v)
}

func rankOrPawn(tier schema.Tier) int {
	if r := tier.Rank(); r >= 0 {
		return r
	}
	return 0
}
