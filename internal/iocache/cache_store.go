// Package iocache is for caching I/O calls and persisting tier snapshots.
package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pawnrank/pawnrank/internal/contract"
	"github.com/pawnrank/pawnrank/schema"
)

// CacheStoreImpl keeps raw Lichess responses keyed by request, with the payload
// version and the unix second they were fetched at.
type CacheStoreImpl struct {
	db      *sql.DB
	table   string
	backend schema.DatabaseBackend
	connStr string
	queries responseQueries
}

var _ contract.CacheStore = &CacheStoreImpl{} // Compile-time check

// responseQueries is the SQL a response table needs, rendered once per backend.
type responseQueries struct {
	create string
	get    string
	upsert string
	prune  string
	stats  string
}

func buildResponseQueries(table string, backend schema.DatabaseBackend) responseQueries {
	t := quoteTableName(table, backend)
	p1, p2, p3, p4 := placeholder(backend, 1), placeholder(backend, 2), placeholder(backend, 3), placeholder(backend, 4)

	q := responseQueries{
		get:   fmt.Sprintf("SELECT payload, payload_version, fetched_at FROM %s WHERE response_key = %s", t, p1),
		prune: fmt.Sprintf("DELETE FROM %s WHERE fetched_at < %s", t, p1),
		stats: fmt.Sprintf("SELECT COUNT(*), COALESCE(MIN(fetched_at), 0), COALESCE(MAX(fetched_at), 0) FROM %s", t),
	}
	insert := fmt.Sprintf("INSERT INTO %s (response_key, payload, payload_version, fetched_at) VALUES (%s, %s, %s, %s)", t, p1, p2, p3, p4)

	switch backend {
	case schema.MySQLBackend:
		q.create = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	response_key VARCHAR(255) PRIMARY KEY,
	payload MEDIUMBLOB NOT NULL,
	payload_version INT NOT NULL,
	fetched_at BIGINT NOT NULL
)`, t)
		q.upsert = insert + " AS incoming ON DUPLICATE KEY UPDATE payload = incoming.payload, payload_version = incoming.payload_version, fetched_at = incoming.fetched_at"
	case schema.PostgreSQLBackend:
		q.create = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	response_key TEXT PRIMARY KEY,
	payload BYTEA NOT NULL,
	payload_version INTEGER NOT NULL,
	fetched_at BIGINT NOT NULL
)`, t)
		q.upsert = insert + " ON CONFLICT (response_key) DO UPDATE SET payload = EXCLUDED.payload, payload_version = EXCLUDED.payload_version, fetched_at = EXCLUDED.fetched_at"
	default:
		q.create = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	response_key TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	payload_version INTEGER NOT NULL,
	fetched_at INTEGER NOT NULL
)`, t)
		q.upsert = insert + " ON CONFLICT (response_key) DO UPDATE SET payload = excluded.payload, payload_version = excluded.payload_version, fetched_at = excluded.fetched_at"
	}
	return q
}

// NewCacheStore opens the response table for a backend. The none backend yields
// a store that misses on every lookup and discards writes.
func NewCacheStore(table string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}
	store := &CacheStoreImpl{table: table, backend: backend, connStr: connStr}
	if backend == schema.NoneBackend {
		return store, nil
	}

	db, err := openDB(backend, connStr, GetCacheDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize response cache: %w", err)
	}
	store.queries = buildResponseQueries(table, backend)
	if _, err := db.Exec(store.queries.create); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}
	store.db = db
	return store, nil
}

func (cs *CacheStoreImpl) disabled() bool {
	return cs.backend == schema.NoneBackend || cs.db == nil
}

// Get returns the payload, its version and fetch time. Misses yield sql.ErrNoRows.
func (cs *CacheStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if cs.disabled() {
		return nil, 0, 0, sql.ErrNoRows
	}
	var (
		payload   []byte
		version   int
		fetchedAt int64
	)
	if err := cs.db.QueryRow(cs.queries.get, key).Scan(&payload, &version, &fetchedAt); err != nil {
		return nil, 0, 0, err
	}
	return payload, version, fetchedAt, nil
}

// Set stores or replaces the payload for key.
func (cs *CacheStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if cs.disabled() {
		return nil
	}
	_, err := cs.db.Exec(cs.queries.upsert, key, value, version, timestamp)
	return err
}

// Prune deletes entries fetched before the cutoff and returns how many were removed.
func (cs *CacheStoreImpl) Prune(before int64) (int64, error) {
	if cs.disabled() {
		return 0, nil
	}
	result, err := cs.db.Exec(cs.queries.prune, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune %s: %w", cs.table, err)
	}
	return result.RowsAffected()
}

// Close closes the underlying DB connection.
func (cs *CacheStoreImpl) Close() error {
	if cs.db != nil {
		return cs.db.Close()
	}
	return nil
}

// GetStatus reports entry counts, fetch-time bounds and an approximate table size.
func (cs *CacheStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(cs.backend),
		Connected: cs.db != nil,
	}
	if cs.disabled() {
		return status, nil
	}

	var oldest, newest int64
	if err := cs.db.QueryRow(cs.queries.stats).Scan(&status.TotalEntries, &oldest, &newest); err != nil {
		return status, fmt.Errorf("failed to read cache stats: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}
	status.OldestEntryTime = time.Unix(oldest, 0)
	status.LastEntryTime = time.Unix(newest, 0)
	status.TableSizeBytes = estimateTableSize(cs.db, cs.backend, cs.connStr, cs.table, status.TotalEntries)
	return status, nil
}
