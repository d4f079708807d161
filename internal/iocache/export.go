package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/internal/parquet"
)

// ExportSnapshots writes every snapshot in the store to a Parquet file and
// reports progress to w.
func ExportSnapshots(store contract.SnapshotStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("snapshot store is not configured; set --snapshot-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get snapshot status: %w", err)
	}
	if status.TotalSnapshots == 0 {
		return errors.New("no snapshots found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)

	records, err := store.GetAllSnapshots()
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshots: %w", err)
	}

	rows := parquet.ConvertSnapshotRecords(records)
	if err := parquet.WriteSnapshotsParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d snapshots for %d players to: %s\n", len(rows), status.DistinctPlayers, outputFile)
	return nil
}
