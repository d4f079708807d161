package algo

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pawnrank/pawnrank/schema"
)

// ValidateEntry reports why an entry cannot be segmented, or nil.
func ValidateEntry(e schema.RatingHistoryEntry) error {
	if math.IsNaN(e.Rating) || math.IsInf(e.Rating, 0) {
		return fmt.Errorf("non-finite rating %v", e.Rating)
	}
	if e.Month < 1 || e.Month > 12 {
		return fmt.Errorf("month %d out of range 1..12", e.Month)
	}
	d := time.Date(e.Year, time.Month(e.Month), e.Day, 0, 0, 0, 0, time.UTC)
	if e.Day < 1 || d.Year() != e.Year || int(d.Month()) != e.Month || d.Day() != e.Day {
		return fmt.Errorf("day %d does not exist in %04d-%02d", e.Day, e.Year, e.Month)
	}
	return nil
}

// Normalize validates entries and returns a fresh slice sorted by date with one
// entry per calendar day. When a day repeats, the entry appearing last in the
// input wins.
func Normalize(entries []schema.RatingHistoryEntry) ([]schema.RatingHistoryEntry, error) {
	for i, e := range entries {
		if err := ValidateEntry(e); err != nil {
			return nil, &EntryError{Index: i, Reason: err.Error()}
		}
	}

	sorted := make([]schema.RatingHistoryEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	out := make([]schema.RatingHistoryEntry, 0, len(sorted))
	for _, e := range sorted {
		if n := len(out); n > 0 && out[n-1].SameDay(e) {
			out[n-1] = e
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Tag annotates already-normalized entries with their tier and transition flags.
// The first entry is its own predecessor, so it is never a tier change.
func Tag(entries []schema.RatingHistoryEntry, table *ThresholdTable) []schema.TaggedEntry {
	out := make([]schema.TaggedEntry, len(entries))
	for i, e := range entries {
		tier := table.Classify(NormalizeRating(e.Rating))
		tagged := schema.TaggedEntry{
			RatingHistoryEntry: e,
			PreviousRating:     e.Rating,
			Tier:               tier,
		}
		if i > 0 {
			prev := out[i-1]
			tagged.PreviousRating = prev.Rating
			tagged.IsTierChange = tier != prev.Tier
			tagged.IsPromoted = tagged.IsTierChange && e.Rating > prev.Rating
		}
		out[i] = tagged
	}
	return out
}

// Segment normalizes and tags a rating history, then splits it into maximal
// runs of consecutive points sharing a tier. Empty input yields an empty slice.
func Segment(entries []schema.RatingHistoryEntry, table *ThresholdTable) ([]schema.ChartSegment, error) {
	normalized, err := Normalize(entries)
	if err != nil {
		return nil, err
	}
	tagged := Tag(normalized, table)

	segments := make([]schema.ChartSegment, 0)
	for i, point := range tagged {
		if n := len(segments); n > 0 && segments[n-1].Tier == point.Tier {
			segments[n-1].Points = append(segments[n-1].Points, point)
			continue
		}
		segments = append(segments, schema.ChartSegment{
			Points:     []schema.TaggedEntry{point},
			Tier:       point.Tier,
			ColorKey:   point.Tier.ColorKey(),
			StartIndex: i,
		})
	}
	return segments, nil
}
