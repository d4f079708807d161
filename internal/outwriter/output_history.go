package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/internal/parquet"
	"github.com/pawnrank/pawnrank/schema"
)

const historyDateFormat = "2006-01-02"

func (ow *OutWriter) writeHistory(result schema.HistoryResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON history"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVHistory(w, result, fmtFloat)
		}, "Wrote CSV history"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := requireOutputFile(cfg); err != nil {
			return err
		}
		points := parquet.ConvertSegments(result.Segments)
		if err := parquet.WriteHistoryParquet(points, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(ow.stderr, "💾 Wrote %d history points to %s\n", len(points), cfg.OutputFile)
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, result, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeHistoryTable prints one row per segment followed by a transition summary.
func writeHistoryTable(w io.Writer, result schema.HistoryResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	headers := []string{"#", "Tier", "From", "To", "Points", "Start", "End", "Change"}
	data := make([][]string, 0, len(result.Segments))
	for i, seg := range result.Segments {
		first := seg.FirstPoint()
		last := seg.LastPoint()
		change := "-"
		if first.IsTierChange {
			change = "demoted"
			if first.IsPromoted {
				change = "promoted"
			}
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			displayLabel(string(seg.Tier), seg.Tier, cfg),
			entryDate(first.RatingHistoryEntry),
			entryDate(last.RatingHistoryEntry),
			strconv.Itoa(len(seg.Points)),
			fmtFloat(first.Rating),
			fmtFloat(last.Rating),
			change,
		})
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s %s: %d points in %d segments (%d promotions, %d demotions)\n",
		result.Username, result.GameType, result.TotalPoints, len(result.Segments), result.Promotions, result.Demotions); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "History fetched in %v. Cache backend: %s\n", duration.Round(time.Millisecond), cfg.CacheBackend)
	return err
}

func writeCSVHistory(w io.Writer, result schema.HistoryResult, fmtFloat func(float64) string) error {
	header := []string{"segment", "date", "rating", "previous_rating", "tier", "is_tier_change", "is_promoted"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, seg := range result.Segments {
			for _, p := range seg.Points {
				rec := []string{
					strconv.Itoa(i),
					entryDate(p.RatingHistoryEntry),
					fmtFloat(p.Rating),
					fmtFloat(p.PreviousRating),
					string(p.Tier),
					strconv.FormatBool(p.IsTierChange),
					strconv.FormatBool(p.IsPromoted),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func entryDate(e schema.RatingHistoryEntry) string {
	return time.Date(e.Year, time.Month(e.Month), e.Day, 0, 0, 0, 0, time.UTC).Format(historyDateFormat)
}
