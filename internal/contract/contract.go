// Package contract provides interfaces, validated configuration and shared
// CLI utilities for churnchart's internal packages.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/churnchart/schema"
)

// Sentinel errors returned by the pipeline entry points.
var (
	ErrNoInput = errors.New("no input given: pass --input or use --source db")
	ErrNoData  = errors.New("no activity found in the selected window")
)

// EventStore persists normalized events so charts can be built without the
// original files. This allows the store to be mocked for testing.
type EventStore interface {
	// SaveEvents upserts events by ID and returns how many rows were written.
	SaveEvents(ctx context.Context, events []schema.RawEvent) (int, error)

	// LoadEvents returns events with start <= timestamp < end, oldest first.
	// A zero start means no lower bound.
	LoadEvents(ctx context.Context, start, end time.Time) ([]schema.RawEvent, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.EventStoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// StoreManager hands out the configured event store.
type StoreManager interface {
	GetEventStore() EventStore
}
