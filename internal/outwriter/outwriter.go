// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// Results go to the configured output file, or to stdout when none is set.
type OutWriter struct {
	stdout io.Writer
	stderr io.Writer
}

// NewOutWriter creates an output writer bound to the process stdout and stderr.
func NewOutWriter() *OutWriter {
	return &OutWriter{stdout: os.Stdout, stderr: os.Stderr}
}

// NewOutWriterTo creates an output writer that prints to the given writers instead.
func NewOutWriterTo(stdout, stderr io.Writer) *OutWriter {
	return &OutWriter{stdout: stdout, stderr: stderr}
}

// Stderr returns the writer used for status messages.
func (ow *OutWriter) Stderr() io.Writer {
	return ow.stderr
}

// WriteRatings prints classified ratings. Progress columns are included when withProgress is set.
func (ow *OutWriter) WriteRatings(views []schema.RatingView, cfg *contract.Config, withProgress bool) error {
	return ow.writeRatings(views, cfg, withProgress)
}

// WriteThresholds prints the bands of the active threshold table.
func (ow *OutWriter) WriteThresholds(rows []schema.ThresholdRow, cfg *contract.Config) error {
	return ow.writeThresholds(rows, cfg)
}

// WritePlayer prints one player's current tier.
func (ow *OutWriter) WritePlayer(result schema.PlayerResult, cfg *contract.Config) error {
	return ow.writePlayer(result, cfg)
}

// WriteHistory prints a segmented rating history.
func (ow *OutWriter) WriteHistory(result schema.HistoryResult, cfg *contract.Config, duration time.Duration) error {
	return ow.writeHistory(result, cfg, duration)
}

// WriteLeaderboard prints a ranked leaderboard.
func (ow *OutWriter) WriteLeaderboard(result schema.LeaderboardResult, cfg *contract.Config, duration time.Duration) error {
	return ow.writeLeaderboard(result, cfg, duration)
}

// WriteSnapshots prints stored tier snapshots.
func (ow *OutWriter) WriteSnapshots(records []schema.SnapshotRecord, cfg *contract.Config) error {
	return ow.writeSnapshots(records, cfg)
}

// GetMaxTableNameWidth calculates the maximum width for usernames in table output
// based on terminal width.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Title + Rating + Tier + Progress + Remaining + Next, with borders
	baseWidth := 75

	available := termWidth - baseWidth
	if available < 10 {
		return 10
	}
	if available > 30 {
		return 30
	}
	return available
}

// unsupportedParquet is returned for result kinds that have no columnar form.
func unsupportedParquet(kind string) error {
	return fmt.Errorf("parquet output is not supported for %s; use text, csv or json", kind)
}
