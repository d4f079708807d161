package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/internal/parquet"
	"github.com/pawnrank/pawnrank/schema"
)

func (ow *OutWriter) writeSnapshots(records []schema.SnapshotRecord, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON snapshots")
	case schema.CSVOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"snapshot_id", "username", "game_type", "rating", "tier", "sub_tier", "percentage", "remaining", "next_tier", "next_sub_tier", "preset", "progress_mode", "recorded_at"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, r := range records {
					rec := []string{
						r.SnapshotID, r.Username, r.GameType,
						strconv.Itoa(int(r.Rating)), r.Tier, strconv.Itoa(int(r.SubTier)),
						fmtFloat(r.Percentage), strconv.Itoa(int(r.Remaining)),
						r.NextTier, strconv.Itoa(int(r.NextSubTier)),
						r.Preset, r.ProgressMode, r.RecordedAt.Format(contract.DateTimeFormat),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV snapshots")
	case schema.ParquetOut:
		if err := requireOutputFile(cfg); err != nil {
			return err
		}
		if err := parquet.WriteSnapshotsParquet(parquet.ConvertSnapshotRecords(records), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(ow.stderr, "💾 Wrote %d snapshots to %s\n", len(records), cfg.OutputFile)
		return nil
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			headers := []string{"Recorded", "Game", "Rating", "Tier", "Progress", "Next", "ID"}
			data := make([][]string, 0, len(records))
			for _, r := range records {
				tier := schema.Tier(r.Tier)
				label := subLabel(tier, int(r.SubTier))
				data = append(data, []string{
					r.RecordedAt.Local().Format("2006-01-02 15:04"),
					r.GameType,
					strconv.Itoa(int(r.Rating)),
					displayLabel(label, tier, cfg),
					fmtFloat(r.Percentage) + "%",
					nextTarget(schema.PromotionProgress{NextTier: schema.Tier(r.NextTier), NextSubTier: int(r.NextSubTier)}),
					r.SnapshotID,
				})
			}
			return renderTable(w, headers, data)
		}, "Wrote table")
	}
}
