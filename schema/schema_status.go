package schema

import "time"

// EventStoreStatus represents the status of the event store.
type EventStoreStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEvents     int       `json:"total_events"`
	OldestEventTime time.Time `json:"oldest_event_time"`
	NewestEventTime time.Time `json:"newest_event_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}
