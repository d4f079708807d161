// Package chart renders segmented rating histories as PNG line charts.
package chart

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pawnrank/pawnrank/schema"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth  = 960
	defaultHeight = 480
	ratingPadding = 25.0
	noDataMessage = "Not enough rating history to chart"
)

// Palette maps tier color keys to line colors.
type Palette struct {
	Background drawing.Color
	Text       drawing.Color
	Tiers      map[string]drawing.Color
}

// DefaultPalette is a light palette with one hue per tier.
var DefaultPalette = Palette{
	Background: drawing.ColorWhite,
	Text:       drawing.ColorFromHex("333333"),
	Tiers: map[string]drawing.Color{
		"pawn":   drawing.ColorFromHex("8c8c8c"),
		"knight": drawing.ColorFromHex("2e9e44"),
		"bishop": drawing.ColorFromHex("1f9bb4"),
		"rook":   drawing.ColorFromHex("2a5bd7"),
		"queen":  drawing.ColorFromHex("a03ccf"),
		"king":   drawing.ColorFromHex("e0a800"),
	},
}

func (p Palette) lineColor(colorKey string) drawing.Color {
	if c, ok := p.Tiers[colorKey]; ok {
		return c
	}
	return p.Text
}

// Render draws one series per segment and writes the PNG to w.
// Fewer than two points renders a placeholder image instead.
func Render(segments []schema.ChartSegment, title string, palette Palette, w io.Writer) error {
	if schema.CountPoints(segments) < 2 {
		return renderPlaceholder(palette, w)
	}

	series := make([]chart.Series, 0, len(segments))
	lo, hi := ratingBounds(segments)
	var prev *schema.TaggedEntry
	for _, seg := range segments {
		xs := make([]time.Time, 0, len(seg.Points)+1)
		ys := make([]float64, 0, len(seg.Points)+1)
		// Bridge from the previous segment so the line stays continuous.
		if prev != nil {
			xs = append(xs, entryTime(prev.RatingHistoryEntry))
			ys = append(ys, prev.Rating)
		}
		for _, p := range seg.Points {
			xs = append(xs, entryTime(p.RatingHistoryEntry))
			ys = append(ys, p.Rating)
		}
		last := seg.LastPoint()
		prev = &last

		color := palette.lineColor(seg.ColorKey)
		series = append(series, chart.TimeSeries{
			Name:    fmt.Sprintf("%s #%d", seg.Tier, seg.StartIndex),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    color,
			},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  defaultWidth,
		Height: defaultHeight,
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Style: chart.Style{
				FontColor: palette.Text,
			},
		},
		YAxis: chart.YAxis{
			Name: "Rating",
			Style: chart.Style{
				FontColor: palette.Text,
			},
			Range: &chart.ContinuousRange{
				Min: lo - ratingPadding,
				Max: hi + ratingPadding,
			},
		},
		Series: series,
	}

	buffer := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	_, err := w.Write(buffer.Bytes())
	return err
}

// RenderFile renders the chart into a PNG file at path.
func RenderFile(segments []schema.ChartSegment, title string, palette Palette, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := Render(segments, title, palette, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func renderPlaceholder(palette Palette, w io.Writer) error {
	graph := chart.Chart{
		Width:  400,
		Height: 200,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(noDataMessage)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(noDataMessage, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return fmt.Errorf("failed to render placeholder: %w", err)
	}
	_, err := w.Write(buffer.Bytes())
	return err
}

func ratingBounds(segments []schema.ChartSegment) (lo, hi float64) {
	first := true
	for _, seg := range segments {
		for _, p := range seg.Points {
			if first {
				lo, hi = p.Rating, p.Rating
				first = false
				continue
			}
			lo = min(lo, p.Rating)
			hi = max(hi, p.Rating)
		}
	}
	return lo, hi
}

func entryTime(e schema.RatingHistoryEntry) time.Time {
	return time.Date(e.Year, time.Month(e.Month), e.Day, 0, 0, 0, 0, time.UTC)
}
