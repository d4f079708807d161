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

func (ow *OutWriter) writeLeaderboard(result schema.LeaderboardResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON leaderboard"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"rank", "username", "title", "rating", "tier", "sub_tier", "label", "percentage", "remaining", "next_tier", "next_sub_tier"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, row := range result.Rows {
					rec := append([]string{strconv.Itoa(row.Rank), row.Username, row.Title}, ratingRecord(row.RatingView, fmtFloat)...)
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV leaderboard"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := requireOutputFile(cfg); err != nil {
			return err
		}
		rows := parquet.ConvertLeaderboardRows(result.Rows)
		if err := parquet.WriteLeaderboardParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(ow.stderr, "💾 Wrote %d leaderboard rows to %s\n", len(rows), cfg.OutputFile)
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLeaderboardTable(w, result, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

func writeLeaderboardTable(w io.Writer, result schema.LeaderboardResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	nameWidth := GetMaxTableNameWidth(cfg)
	headers := []string{"Rank", "Player", "Title", "Rating", "Tier", "Progress", "Remaining", "Next"}
	data := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		data = append(data, []string{
			strconv.Itoa(row.Rank),
			contract.TruncateText(row.Username, nameWidth),
			row.Title,
			strconv.Itoa(row.Rating),
			displayLabel(row.Label, row.Result.Tier, cfg),
			fmtFloat(row.Progress.Percentage) + "%",
			strconv.Itoa(row.Progress.RemainingRating),
			nextTarget(row.Progress),
		})
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing top %d %s players\n", len(result.Rows), result.GameType); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Leaderboard built in %v with %d workers. Cache backend: %s\n", duration.Round(time.Millisecond), cfg.Workers, cfg.CacheBackend)
	return err
}
