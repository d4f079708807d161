package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// SnapshotStatus represents the status of the snapshot store.
type SnapshotStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalSnapshots   int              `json:"total_snapshots"`
	DistinctPlayers  int              `json:"distinct_players"`
	LastSnapshotID   string           `json:"last_snapshot_id"`
	LastSnapshotTime time.Time        `json:"last_snapshot_time"`
	OldestTime       time.Time        `json:"oldest_snapshot_time"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
