package iocache

import (
	"context"
	"time"

	"github.com/huangsam/churnchart/internal/contract"
	"github.com/huangsam/churnchart/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetEventStore implements the StoreManager interface.
func (m *MockStoreManager) GetEventStore() contract.EventStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.EventStore)
	return store
}

// MockEventStore is a mock implementation of EventStore for testing.
type MockEventStore struct {
	mock.Mock
}

var _ contract.EventStore = &MockEventStore{} // Compile-time check

// SaveEvents implements the EventStore interface.
func (m *MockEventStore) SaveEvents(ctx context.Context, events []schema.RawEvent) (int, error) {
	args := m.Called(ctx, events)
	return args.Int(0), args.Error(1)
}

// LoadEvents implements the EventStore interface.
func (m *MockEventStore) LoadEvents(ctx context.Context, start, end time.Time) ([]schema.RawEvent, error) {
	args := m.Called(ctx, start, end)
	events, _ := args.Get(0).([]schema.RawEvent)
	return events, args.Error(1)
}

// GetStatus implements the EventStore interface.
func (m *MockEventStore) GetStatus() (schema.EventStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.EventStoreStatus), args.Error(1)
}

// Close implements the EventStore interface.
func (m *MockEventStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
