package iocache

import (
	"sync"

	"github.com/pawnrank/pawnrank/internal/contract"
)

// StoreManager hands out the response cache and the snapshot store.
type StoreManager struct {
	sync.RWMutex
	response contract.CacheStore
	snapshot contract.SnapshotStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetResponseStore returns the response CacheStore, or nil when caching is off.
func (mgr *StoreManager) GetResponseStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.response
}

// GetSnapshotStore returns the SnapshotStore, or nil when snapshots are off.
func (mgr *StoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshot
}
