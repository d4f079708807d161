package iocache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/schema"
)

// snapshotsTable holds one row per recorded tier classification.
const snapshotsTable = "pawnrank_tier_snapshots"

var snapshotColumns = []string{
	"snapshot_id", "username", "game_type", "rating", "tier", "sub_tier",
	"percentage", "remaining", "next_tier", "next_sub_tier",
	"preset", "progress_mode", "recorded_at",
}

// SnapshotStoreImpl persists tier snapshots in a migrated SQL schema.
type SnapshotStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// NewSnapshotStore opens the backend and migrates it to the latest schema.
func NewSnapshotStore(backend schema.DatabaseBackend, connStr string) (contract.SnapshotStore, error) {
	if backend == schema.NoneBackend {
		return &SnapshotStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetSnapshotDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	if _, err := migrateDB(db, backend, -1); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SnapshotStoreImpl{db: db, backend: backend}, nil
}

// RecordSnapshot stores the record under a fresh nanoid and returns that ID.
func (ss *SnapshotStoreImpl) RecordSnapshot(record schema.SnapshotRecord) (string, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return "", nil
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate snapshot id: %w", err)
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now()
	}

	marks := make([]string, len(snapshotColumns))
	for i := range marks {
		marks[i] = placeholder(ss.backend, i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteTableName(snapshotsTable, ss.backend),
		strings.Join(snapshotColumns, ", "),
		strings.Join(marks, ", "))

	_, err = ss.db.Exec(query,
		id, record.Username, record.GameType, record.Rating, record.Tier, record.SubTier,
		record.Percentage, record.Remaining, record.NextTier, record.NextSubTier,
		record.Preset, record.ProgressMode, record.RecordedAt.UnixMilli())
	if err != nil {
		return "", fmt.Errorf("failed to record snapshot for %s: %w", record.Username, err)
	}
	return id, nil
}

// ListSnapshots returns a player's snapshots, newest first. A non-positive limit returns all of them.
func (ss *SnapshotStoreImpl) ListSnapshots(username string, limit int) ([]schema.SnapshotRecord, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE username = %s ORDER BY recorded_at DESC, snapshot_id DESC`,
		strings.Join(snapshotColumns, ", "),
		quoteTableName(snapshotsTable, ss.backend),
		placeholder(ss.backend, 1))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return ss.querySnapshots(query, schema.NormalizeUsername(username))
}

// GetAllSnapshots returns every snapshot, oldest first.
func (ss *SnapshotStoreImpl) GetAllSnapshots() ([]schema.SnapshotRecord, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY recorded_at ASC, snapshot_id ASC`,
		strings.Join(snapshotColumns, ", "),
		quoteTableName(snapshotsTable, ss.backend))
	return ss.querySnapshots(query)
}

func (ss *SnapshotStoreImpl) querySnapshots(query string, args ...any) ([]schema.SnapshotRecord, error) {
	rows, err := ss.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.SnapshotRecord
	for rows.Next() {
		var r schema.SnapshotRecord
		var recordedAt int64
		if err := rows.Scan(
			&r.SnapshotID, &r.Username, &r.GameType, &r.Rating, &r.Tier, &r.SubTier,
			&r.Percentage, &r.Remaining, &r.NextTier, &r.NextSubTier,
			&r.Preset, &r.ProgressMode, &recordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		r.RecordedAt = time.UnixMilli(recordedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetStatus returns counts and time bounds of the snapshot table.
func (ss *SnapshotStoreImpl) GetStatus() (schema.SnapshotStatus, error) {
	status := schema.SnapshotStatus{
		Backend:    string(ss.backend),
		Connected:  ss.db != nil,
		TableSizes: make(map[string]int64),
	}

	if ss.backend == schema.NoneBackend || ss.db == nil {
		return status, nil
	}

	table := quoteTableName(snapshotsTable, ss.backend)
	row := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COUNT(DISTINCT username) FROM %s", table))
	if err := row.Scan(&status.TotalSnapshots, &status.DistinctPlayers); err != nil {
		return status, fmt.Errorf("failed to count snapshots: %w", err)
	}
	status.TableSizes[snapshotsTable] = int64(status.TotalSnapshots)

	if status.TotalSnapshots == 0 {
		return status, nil
	}

	var lastMillis, oldestMillis int64
	lastQuery := fmt.Sprintf("SELECT snapshot_id, recorded_at FROM %s ORDER BY recorded_at DESC, snapshot_id DESC LIMIT 1", table)
	if err := ss.db.QueryRow(lastQuery).Scan(&status.LastSnapshotID, &lastMillis); err != nil {
		return status, fmt.Errorf("failed to get last snapshot: %w", err)
	}
	if err := ss.db.QueryRow(fmt.Sprintf("SELECT MIN(recorded_at) FROM %s", table)).Scan(&oldestMillis); err != nil {
		return status, fmt.Errorf("failed to get oldest snapshot: %w", err)
	}
	status.LastSnapshotTime = time.UnixMilli(lastMillis)
	status.OldestTime = time.UnixMilli(oldestMillis)

	return status, nil
}

// Close closes the underlying DB connection.
func (ss *SnapshotStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}
