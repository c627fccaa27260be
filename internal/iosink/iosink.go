// Package iosink is for persisting finished extraction runs and publishing reports.
package iosink

import (
	"sync"

	"github.com/huangsam/stylemetrics/internal/contract"
)

// SinkStoreManager holds the run store opened for this process.
type SinkStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	runs         contract.RunStore
}

var _ contract.SinkManager = &SinkStoreManager{} // Compile-time check

// GetRunStore returns the run store, or nil when the sink is disabled.
func (mgr *SinkStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
