package algo

import (
	"math"
	"testing"

	"github.com/pawnrank/pawnrank/schema"
	"github.com/stretchr/testify/assert"
)

func TestProgressSubTierMode(t *testing.T) {
	table := profileTable(t)

	tests := []struct {
		name        string
		rating      int
		tier        schema.Tier
		wantPct     float64
		wantRemain  int
		wantTier    schema.Tier
		wantSubTier int
	}{
		{"best sub-tier targets next tier", 1150, schema.Knight, 15, 51, schema.Bishop, 1},
		{"second sub-tier targets best", 1100, schema.Knight, 100 * 19.0 / 60.0, 41, schema.Knight, 1},
		{"band floor", 901, schema.Knight, 0, 60, schema.Knight, 4},
		{"band ceiling", 1200, schema.Knight, 100 * 59.0 / 60.0, 1, schema.Bishop, 1},
		{"below pawn threshold clamps to zero", 300, schema.Pawn, 0, 201, schema.Pawn, 4},
		{"queen ceiling targets king", 2100, schema.Queen, 100 * 59.0 / 60.0, 1, schema.King, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Progress(tt.rating, tt.tier, table, schema.SubTierProgress)
			assert.InDelta(t, tt.wantPct, p.Percentage, 1e-9)
			assert.Equal(t, tt.wantRemain, p.RemainingRating)
			assert.Equal(t, tt.wantTier, p.NextTier)
			assert.Equal(t, tt.wantSubTier, p.NextSubTier)
		})
	}
}

func TestProgressTierMode(t *testing.T) {
	table := profileTable(t)

	p := Progress(1150, schema.Knight, table, schema.TierProgress)
	assert.InDelta(t, 83.0, p.Percentage, 1e-9)
	assert.Equal(t, 51, p.RemainingRating)
	assert.Equal(t, schema.Bishop, p.NextTier)
	assert.Equal(t, 5, p.NextSubTier)

	p = Progress(300, schema.Pawn, table, schema.TierProgress)
	assert.Equal(t, 0.0, p.Percentage)
	assert.Equal(t, 601, p.RemainingRating)
	assert.Equal(t, schema.Knight, p.NextTier)

	p = Progress(901, schema.Knight, table, schema.TierProgress)
	assert.Equal(t, 0.0, p.Percentage)
	assert.Equal(t, 300, p.RemainingRating)
}

func TestProgressKing(t *testing.T) {
	table := profileTable(t)
	want := schema.PromotionProgress{Percentage: 100, RemainingRating: 0, NextTier: schema.King, NextSubTier: 1}

	for _, mode := range []schema.ProgressMode{schema.SubTierProgress, schema.TierProgress, "bogus"} {
		for _, rating := range []int{2101, 2500, 4000} {
			assert.Equal(t, want, Progress(rating, schema.King, table, mode))
		}
	}
}

func TestProgressUnknownInputs(t *testing.T) {
	table := profileTable(t)

	// Unknown mode falls back to sub-tier progress.
	assert.Equal(t,
		Progress(1100, schema.Knight, table, schema.SubTierProgress),
		Progress(1100, schema.Knight, table, "bogus"))

	// Unknown tier is replaced by classification.
	assert.Equal(t,
		Progress(1100, schema.Knight, table, schema.SubTierProgress),
		Progress(1100, "EMPEROR", table, schema.SubTierProgress))
}

func TestProgressMonotonicWithinSubRange(t *testing.T) {
	table := profileTable(t)
	prev := -1.0
	for r := 1141; r <= 1200; r++ {
		p := Progress(r, schema.Knight, table, schema.SubTierProgress)
		assert.GreaterOrEqual(t, p.Percentage, prev)
		assert.Equal(t, 1201-r, p.RemainingRating)
		prev = p.Percentage
	}
}

func TestProgressExtremeRatings(t *testing.T) {
	profile := profileTable(t)
	extreme := extremeTable(t)

	tests := []struct {
		name        string
		table       *ThresholdTable
		rating      int
		mode        schema.ProgressMode
		wantRemain  int
		wantTier    schema.Tier
		wantSubTier int
	}{
		{"lowest int saturates to next sub-tier", profile, math.MinInt, schema.SubTierProgress, math.MaxInt32, schema.Pawn, 4},
		{"lowest int saturates to next tier", profile, math.MinInt, schema.TierProgress, math.MaxInt32, schema.Knight, 5},
		{"wide pawn ceiling is one short of knight", extreme, -1, schema.SubTierProgress, 1, schema.Knight, 1},
		{"wide pawn floor", extreme, math.MinInt32, schema.TierProgress, math.MaxInt32, schema.Knight, 5},
		{"highest int is top tier", profile, math.MaxInt, schema.SubTierProgress, 0, schema.King, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := tt.table.Classify(tt.rating)
			p := Progress(tt.rating, tier, tt.table, tt.mode)
			assert.Equal(t, tt.wantRemain, p.RemainingRating)
			assert.Equal(t, tt.wantTier, p.NextTier)
			assert.Equal(t, tt.wantSubTier, p.NextSubTier)
			assert.GreaterOrEqual(t, p.Percentage, 0.0)
			assert.LessOrEqual(t, p.Percentage, 100.0)
		})
	}
}
