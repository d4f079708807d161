package algo

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pawnrank/pawnrank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(y, m, d int, r float64) schema.RatingHistoryEntry {
	return schema.RatingHistoryEntry{Year: y, Month: m, Day: d, Rating: r}
}

func TestSegmentSameDayDedup(t *testing.T) {
	table := profileTable(t)
	in := []schema.RatingHistoryEntry{
		entry(2024, 1, 1, 1000),
		entry(2024, 1, 1, 1050),
		entry(2024, 1, 2, 1040),
	}

	segments, err := Segment(in, table)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	require.Len(t, segments[0].Points, 2)
	assert.Equal(t, 1050.0, segments[0].Points[0].Rating)
	assert.Equal(t, 1040.0, segments[0].Points[1].Rating)
	assert.Equal(t, schema.Knight, segments[0].Tier)
	assert.Equal(t, "knight", segments[0].ColorKey)
	assert.Equal(t, 0, segments[0].StartIndex)
}

func TestSegmentEmptyAndSingle(t *testing.T) {
	table := profileTable(t)

	segments, err := Segment(nil, table)
	require.NoError(t, err)
	assert.NotNil(t, segments)
	assert.Empty(t, segments)

	segments, err = Segment([]schema.RatingHistoryEntry{entry(2023, 5, 5, 1500)}, table)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	require.Len(t, segments[0].Points, 1)
	p := segments[0].Points[0]
	assert.Equal(t, 1500.0, p.PreviousRating)
	assert.False(t, p.IsTierChange)
	assert.False(t, p.IsPromoted)
	assert.Equal(t, schema.Bishop, p.Tier)
}

func TestSegmentTransitions(t *testing.T) {
	table := profileTable(t)
	in := []schema.RatingHistoryEntry{
		entry(2023, 1, 3, 1210), // bishop
		entry(2023, 1, 1, 1150), // knight, out of order on purpose
		entry(2023, 1, 2, 1180), // knight
		entry(2023, 1, 4, 1190), // back to knight
		entry(2023, 1, 5, 1550), // rook
	}

	segments, err := Segment(in, table)
	require.NoError(t, err)
	require.Len(t, segments, 4)

	assert.Equal(t, []schema.Tier{schema.Knight, schema.Bishop, schema.Knight, schema.Rook},
		[]schema.Tier{segments[0].Tier, segments[1].Tier, segments[2].Tier, segments[3].Tier})
	assert.Equal(t, []int{0, 2, 3, 4},
		[]int{segments[0].StartIndex, segments[1].StartIndex, segments[2].StartIndex, segments[3].StartIndex})

	promo := segments[1].Points[0]
	assert.True(t, promo.IsTierChange)
	assert.True(t, promo.IsPromoted)
	assert.Equal(t, 1180.0, promo.PreviousRating)

	demo := segments[2].Points[0]
	assert.True(t, demo.IsTierChange)
	assert.False(t, demo.IsPromoted)

	promotions, demotions := schema.CountTransitions(segments)
	assert.Equal(t, 2, promotions)
	assert.Equal(t, 1, demotions)
}

func TestSegmentInvalidEntries(t *testing.T) {
	table := profileTable(t)

	tests := []struct {
		name  string
		bad   schema.RatingHistoryEntry
		index int
	}{
		{"nan rating", entry(2024, 1, 2, math.NaN()), 1},
		{"infinite rating", entry(2024, 1, 2, math.Inf(1)), 1},
		{"month zero", entry(2024, 0, 2, 1000), 1},
		{"month thirteen", entry(2024, 13, 2, 1000), 1},
		{"day zero", entry(2024, 1, 0, 1000), 1},
		{"february thirtieth", entry(2024, 2, 30, 1000), 1},
		{"non-leap february 29", entry(2023, 2, 29, 1000), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []schema.RatingHistoryEntry{entry(2024, 1, 1, 1000), tt.bad}
			segments, err := Segment(in, table)
			assert.Nil(t, segments)
			require.ErrorIs(t, err, ErrInvalidEntry)

			var entryErr *EntryError
			require.True(t, errors.As(err, &entryErr))
			assert.Equal(t, tt.index, entryErr.Index)
		})
	}

	// Leap day is fine.
	_, err := Segment([]schema.RatingHistoryEntry{entry(2024, 2, 29, 1000)}, table)
	assert.NoError(t, err)
}

func TestSegmentDoesNotMutateInput(t *testing.T) {
	table := profileTable(t)
	in := []schema.RatingHistoryEntry{
		entry(2024, 3, 1, 1300),
		entry(2024, 1, 1, 900),
		entry(2024, 1, 1, 950),
	}
	original := make([]schema.RatingHistoryEntry, len(in))
	copy(original, in)

	first, err := Segment(in, table)
	require.NoError(t, err)
	if diff := cmp.Diff(original, in); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}

	second, err := Segment(in, table)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("segment not deterministic (-first +second):\n%s", diff)
	}

	// Outputs share no memory.
	first[0].Points[0].Rating = -1
	assert.NotEqual(t, -1.0, second[0].Points[0].Rating)
}

func TestNormalizeKeepsLastOfDay(t *testing.T) {
	in := []schema.RatingHistoryEntry{
		entry(2024, 1, 2, 10),
		entry(2024, 1, 1, 1),
		entry(2024, 1, 2, 20),
		entry(2024, 1, 1, 2),
	}
	out, err := Normalize(in)
	require.NoError(t, err)
	want := []schema.RatingHistoryEntry{entry(2024, 1, 1, 2), entry(2024, 1, 2, 20)}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("Normalize (-want +got):\n%s", diff)
	}
}

func TestTagUsesNormalizedRating(t *testing.T) {
	table := profileTable(t)
	tagged := Tag([]schema.RatingHistoryEntry{entry(2024, 1, 1, 1200.4), entry(2024, 1, 2, 1200.6)}, table)
	require.Len(t, tagged, 2)
	assert.Equal(t, schema.Knight, tagged[0].Tier)
	assert.Equal(t, schema.Bishop, tagged[1].Tier)
	assert.True(t, tagged[1].IsPromoted)
}

// TestSegmentProperties checks structural invariants over random histories.
func TestSegmentProperties(t *testing.T) {
	table := profileTable(t)
	rng := rand.New(rand.NewSource(42))

	for iter := range 200 {
		n := rng.Intn(60)
		in := make([]schema.RatingHistoryEntry, n)
		for i := range in {
			in[i] = entry(2020+rng.Intn(3), 1+rng.Intn(12), 1+rng.Intn(28), float64(rng.Intn(3000)))
		}

		segments, err := Segment(in, table)
		require.NoError(t, err, "iteration %d", iter)

		normalized, err := Normalize(in)
		require.NoError(t, err)
		assert.Equal(t, len(normalized), schema.CountPoints(segments))

		next := 0
		for i, seg := range segments {
			require.NotEmpty(t, seg.Points)
			assert.Equal(t, next, seg.StartIndex)
			assert.Equal(t, seg.Tier.ColorKey(), seg.ColorKey)
			for _, p := range seg.Points {
				assert.Equal(t, seg.Tier, p.Tier)
			}
			assert.Equal(t, i > 0, seg.Points[0].IsTierChange)
			if i > 0 {
				assert.NotEqual(t, segments[i-1].Tier, seg.Tier)
			}
			next += len(seg.Points)
		}
	}
}
