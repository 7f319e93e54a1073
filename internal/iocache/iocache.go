// Package iocache is for persisting normalized activity events in a SQL store.
package iocache

import (
	"sync"

	"github.com/huangsam/churnchart/internal/contract"
)

// EventStoreManager manages the EventStore instance.
type EventStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	events       contract.EventStore
}

var _ contract.StoreManager = &EventStoreManager{} // Compile-time check

// GetEventStore returns the EventStore.
func (mgr *EventStoreManager) GetEventStore() contract.EventStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.events
}
