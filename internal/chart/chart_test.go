package chart

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/pawnrank/pawnrank/core/algo"
	"github.com/pawnrank/pawnrank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segmentsFor(t *testing.T, ratings ...float64) []schema.ChartSegment {
	t.Helper()
	entries := make([]schema.RatingHistoryEntry, len(ratings))
	for i, r := range ratings {
		entries[i] = schema.RatingHistoryEntry{Year: 2024, Month: 1 + i/28, Day: 1 + i%28, Rating: r}
	}
	segments, err := algo.Segment(entries, algo.PresetTable(schema.ProfilePreset))
	require.NoError(t, err)
	return segments
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(segmentsFor(t, 880, 905, 930, 890, 1250), "alpha blitz", DefaultPalette, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, defaultWidth, img.Bounds().Dx())
	assert.Equal(t, defaultHeight, img.Bounds().Dy())
}

func TestRenderFlatHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(segmentsFor(t, 1000, 1000, 1000), "flat", DefaultPalette, &buf))
	_, err := png.Decode(&buf)
	assert.NoError(t, err)
}

func TestRenderPlaceholder(t *testing.T) {
	tests := []struct {
		name     string
		segments []schema.ChartSegment
	}{
		{"empty", nil},
		{"single point", segmentsFor(t, 1500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(tt.segments, "none", DefaultPalette, &buf))

			img, err := png.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, 400, img.Bounds().Dx())
		})
	}
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, RenderFile(segmentsFor(t, 900, 950), "file", DefaultPalette, path))
	assert.FileExists(t, path)

	err := RenderFile(nil, "bad", DefaultPalette, filepath.Join(t.TempDir(), "missing", "chart.png"))
	assert.Error(t, err)
}

func TestLineColor(t *testing.T) {
	assert.Equal(t, DefaultPalette.Tiers["king"], DefaultPalette.lineColor("king"))
	assert.Equal(t, DefaultPalette.Text, DefaultPalette.lineColor("unknown"))
}

func TestRatingBounds(t *testing.T) {
	lo, hi := ratingBounds(segmentsFor(t, 1200, 800, 1900))
	assert.Equal(t, 800.0, lo)
	assert.Equal(t, 1900.0, hi)
}
