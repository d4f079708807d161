package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/schema"
)

func (ow *OutWriter) writeRatings(views []schema.RatingView, cfg *contract.Config, withProgress bool) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, views)
		}, "Wrote JSON")
	case schema.CSVOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRatings(w, views, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return unsupportedParquet("ratings")
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRatingsTable(w, views, cfg, fmtFloat, withProgress)
		}, "Wrote table")
	}
}

func writeRatingsTable(w io.Writer, views []schema.RatingView, cfg *contract.Config, fmtFloat func(float64) string, withProgress bool) error {
	headers := []string{"Rating", "Tier", "Label"}
	if withProgress {
		headers = append(headers, "Progress", "Bar", "Remaining", "Next")
	}

	data := make([][]string, 0, len(views))
	for _, v := range views {
		row := []string{
			strconv.Itoa(v.Rating),
			string(v.Result.Tier),
			displayLabel(v.Label, v.Result.Tier, cfg),
		}
		if withProgress {
			row = append(row,
				fmtFloat(v.Progress.Percentage)+"%",
				contract.ProgressBar(v.Progress.Percentage, progressBarWidth),
				strconv.Itoa(v.Progress.RemainingRating),
				nextTarget(v.Progress),
			)
		}
		data = append(data, row)
	}
	return renderTable(w, headers, data)
}

func writeCSVRatings(w io.Writer, views []schema.RatingView, fmtFloat func(float64) string) error {
	header := []string{"rating", "tier", "sub_tier", "label", "percentage", "remaining", "next_tier", "next_sub_tier"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, v := range views {
			if err := cw.Write(ratingRecord(v, fmtFloat)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ratingRecord flattens a view into the shared CSV columns.
func ratingRecord(v schema.RatingView, fmtFloat func(float64) string) []string {
	return []string{
		strconv.Itoa(v.Rating),
		string(v.Result.Tier),
		strconv.Itoa(v.Result.SubTier),
		v.Label,
		fmtFloat(v.Progress.Percentage),
		strconv.Itoa(v.Progress.RemainingRating),
		string(v.Progress.NextTier),
		strconv.Itoa(v.Progress.NextSubTier),
	}
}

func (ow *OutWriter) writePlayer(result schema.PlayerResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"username", "game_type", "games", "rating", "tier", "sub_tier", "label", "percentage", "remaining", "next_tier", "next_sub_tier"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				rec := append([]string{result.Username, string(result.GameType), strconv.Itoa(result.Games)}, ratingRecord(result.RatingView, fmtFloat)...)
				return cw.Write(rec)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return unsupportedParquet("player results")
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePlayerCard(w, result, cfg, fmtFloat)
		}, "Wrote player card")
	}
}

func writePlayerCard(w io.Writer, result schema.PlayerResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	p := result.Progress
	lines := []string{
		fmt.Sprintf("Player:    %s (%s, %d games)", result.Username, result.GameType, result.Games),
		fmt.Sprintf("Rating:    %d", result.Rating),
		fmt.Sprintf("Tier:      %s", displayLabel(result.Label, result.Result.Tier, cfg)),
	}
	if result.Result.Tier.IsTop() {
		lines = append(lines, "Progress:  "+contract.ProgressBar(p.Percentage, progressBarWidth*2)+" top tier reached")
	} else {
		lines = append(lines,
			fmt.Sprintf("Progress:  %s %s%%", contract.ProgressBar(p.Percentage, progressBarWidth*2), fmtFloat(p.Percentage)),
			fmt.Sprintf("Next:      %s in %d points", nextTarget(p), p.RemainingRating),
		)
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func (ow *OutWriter) writeThresholds(rows []schema.ThresholdRow, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"tier", "sub_tier", "label", "min", "max"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, r := range rows {
					for _, sub := range r.SubRanges {
						rec := []string{string(r.Tier), strconv.Itoa(sub.SubTier), subLabel(r.Tier, sub.SubTier), strconv.Itoa(sub.Min), bandMax(sub.Max, r.Unbounded)}
						if err := cw.Write(rec); err != nil {
							return err
						}
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return unsupportedParquet("thresholds")
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			headers := []string{"Tier", "Min", "Max", "V", "IV", "III", "II", "I"}
			data := make([][]string, 0, len(rows))
			for _, r := range rows {
				row := []string{displayLabel(string(r.Tier), r.Tier, cfg), strconv.Itoa(r.Min), bandMax(r.Max, r.Unbounded)}
				cells := make([]string, schema.SubTierCount)
				for i := range cells {
					cells[i] = "-"
				}
				for _, sub := range r.SubRanges {
					cells[schema.SubTierCount-sub.SubTier] = fmt.Sprintf("%d-%s", sub.Min, bandMax(sub.Max, r.Unbounded))
				}
				data = append(data, append(row, cells...))
			}
			return renderTable(w, headers, data)
		}, "Wrote table")
	}
}

func bandMax(maxRating int, unbounded bool) string {
	if unbounded {
		return "+"
	}
	return strconv.Itoa(maxRating)
}

func subLabel(tier schema.Tier, subTier int) string {
	return nextTarget(schema.PromotionProgress{NextTier: tier, NextSubTier: subTier})
}
