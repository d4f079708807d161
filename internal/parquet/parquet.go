// Package parquet provides row structs and writers for exporting pawnrank
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/pawnrank/pawnrank/schema"
)

// HistoryPoint is one tagged rating entry together with the segment it was drawn in.
type HistoryPoint struct {
	// Segment is the zero-based index of the ChartSegment holding this point
	Segment int32 `parquet:"segment,snappy"`

	// Date is the day of the rating, stored as a DATE-like timestamp at midnight UTC
	Date time.Time `parquet:"date,snappy"`

	Rating         float64 `parquet:"rating,snappy"`
	PreviousRating float64 `parquet:"previous_rating,snappy"`
	Tier           string  `parquet:"tier,snappy,dict"`
	IsTierChange   bool    `parquet:"is_tier_change"`
	IsPromoted     bool    `parquet:"is_promoted"`
}

// LeaderboardEntry is one ranked player of a leaderboard.
type LeaderboardEntry struct {
	Rank     int32  `parquet:"rank,snappy"`
	Username string `parquet:"username,snappy"`

	// Title is the FIDE or Lichess title (nullable)
	Title *string `parquet:"title,optional,snappy"`

	Rating      int32   `parquet:"rating,snappy"`
	Tier        string  `parquet:"tier,snappy,dict"`
	SubTier     int32   `parquet:"sub_tier,snappy"`
	Label       string  `parquet:"label,snappy"`
	Percentage  float64 `parquet:"percentage,snappy"`
	Remaining   int32   `parquet:"remaining,snappy"`
	NextTier    string  `parquet:"next_tier,snappy,dict"`
	NextSubTier int32   `parquet:"next_sub_tier,snappy"`
}

// Snapshot maps to the pawnrank_tier_snapshots database table.
type Snapshot struct {
	SnapshotID   string    `parquet:"snapshot_id,snappy"`
	Username     string    `parquet:"username,snappy"`
	GameType     string    `parquet:"game_type,snappy,dict"`
	Rating       int32     `parquet:"rating,snappy"`
	Tier         string    `parquet:"tier,snappy,dict"`
	SubTier      int32     `parquet:"sub_tier,snappy"`
	Percentage   float64   `parquet:"percentage,snappy"`
	Remaining    int32     `parquet:"remaining,snappy"`
	NextTier     string    `parquet:"next_tier,snappy,dict"`
	NextSubTier  int32     `parquet:"next_sub_tier,snappy"`
	Preset       string    `parquet:"preset,snappy,dict"`
	ProgressMode string    `parquet:"progress_mode,snappy,dict"`
	RecordedAt   time.Time `parquet:"recorded_at,snappy"`
}

// writeRows writes a slice of rows to a Parquet file, inferring the schema from T's struct tags.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteHistoryParquet writes history points to a Parquet file.
func WriteHistoryParquet(data []HistoryPoint, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteLeaderboardParquet writes leaderboard entries to a Parquet file.
func WriteLeaderboardParquet(data []LeaderboardEntry, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteSnapshotsParquet writes snapshots to a Parquet file.
func WriteSnapshotsParquet(data []Snapshot, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertSegments flattens chart segments into history points.
func ConvertSegments(segments []schema.ChartSegment) []HistoryPoint {
	result := make([]HistoryPoint, 0, schema.CountPoints(segments))
	for i, segment := range segments {
		for _, p := range segment.Points {
			result = append(result, HistoryPoint{
				Segment:        int32(i),
				Date:           time.Date(p.Year, time.Month(p.Month), p.Day, 0, 0, 0, 0, time.UTC),
				Rating:         p.Rating,
				PreviousRating: p.PreviousRating,
				Tier:           string(p.Tier),
				IsTierChange:   p.IsTierChange,
				IsPromoted:     p.IsPromoted,
			})
		}
	}
	return result
}

// ConvertLeaderboardRows converts leaderboard rows for Parquet export.
func ConvertLeaderboardRows(rows []schema.LeaderboardRow) []LeaderboardEntry {
	result := make([]LeaderboardEntry, len(rows))
	for i, row := range rows {
		var title *string
		if row.Title != "" {
			t := row.Title
			title = &t
		}
		result[i] = LeaderboardEntry{
			Rank:        int32(row.Rank),
			Username:    row.Username,
			Title:       title,
			Rating:      int32(row.Rating),
			Tier:        string(row.Result.Tier),
			SubTier:     int32(row.Result.SubTier),
			Label:       row.Label,
			Percentage:  row.Progress.Percentage,
			Remaining:   int32(row.Progress.RemainingRating),
			NextTier:    string(row.Progress.NextTier),
			NextSubTier: int32(row.Progress.NextSubTier),
		}
	}
	return result
}

// ConvertSnapshotRecords converts schema.SnapshotRecord to Snapshot for Parquet export.
func ConvertSnapshotRecords(records []schema.SnapshotRecord) []Snapshot {
	result := make([]Snapshot, len(records))
	for i, record := range records {
		result[i] = Snapshot{
			SnapshotID:   record.SnapshotID,
			Username:     record.Username,
			GameType:     record.GameType,
			Rating:       record.Rating,
			Tier:         record.Tier,
			SubTier:      record.SubTier,
			Percentage:   record.Percentage,
			Remaining:    record.Remaining,
			NextTier:     record.NextTier,
			NextSubTier:  record.NextSubTier,
			Preset:       record.Preset,
			ProgressMode: record.ProgressMode,
			RecordedAt:   record.RecordedAt,
		}
	}
	return result
}
