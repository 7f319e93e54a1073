package iocache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/churnchart/internal/parquet"
	"github.com/huangsam/churnchart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) (*EventStoreImpl, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "events.db")
	store, err := NewEventStore(eventsTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, dbPath
}

func sampleEvents() []schema.RawEvent {
	return []schema.RawEvent{
		{ID: "a", Kind: schema.PullRequestEvent, Author: "alice", Timestamp: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), Additions: 10, Deletions: 2, Commits: 1, FilesChanged: 3},
		{ID: "b", Kind: schema.CommitEvent, Author: "bob", Timestamp: time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC), Additions: 1, Deletions: 9, Commits: 1, FilesChanged: 1},
		{ID: "c", Kind: schema.StarEvent, Author: "carol", Timestamp: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
}

func TestEventStore_SaveAndLoad(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	n, err := store.SaveEvents(ctx, sampleEvents())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	events, err := store.LoadEvents(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, sampleEvents(), events)

	// Half-open range [Jan 2, Jan 5)
	events, err = store.LoadEvents(ctx, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "b", events[0].ID)
}

func TestEventStore_UpsertByID(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	_, err := store.SaveEvents(ctx, sampleEvents())
	require.NoError(t, err)

	updated := sampleEvents()[0]
	updated.Additions = 99
	_, err = store.SaveEvents(ctx, []schema.RawEvent{updated})
	require.NoError(t, err)

	events, err := store.LoadEvents(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 99, events[0].Additions)
}

func TestEventStore_MissingID(t *testing.T) {
	store, _ := newSQLiteStore(t)
	events := sampleEvents()
	events[1].ID = ""

	n, err := store.SaveEvents(context.Background(), events)
	assert.ErrorIs(t, err, ErrMissingEventID)
	assert.Equal(t, 0, n)

	// The transaction is rolled back as a whole
	loaded, err := store.LoadEvents(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestEventStore_GetStatus(t *testing.T) {
	store, _ := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalEvents)

	_, err = store.SaveEvents(context.Background(), sampleEvents())
	require.NoError(t, err)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalEvents)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), status.OldestEventTime)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), status.NewestEventTime)
	assert.Greater(t, status.TableSizeBytes, int64(0))
}

func TestEventStore_NoneBackend(t *testing.T) {
	store, err := NewEventStore(eventsTable, schema.NoneBackend, "")
	require.NoError(t, err)
	ctx := context.Background()

	n, err := store.SaveEvents(ctx, sampleEvents())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	events, err := store.LoadEvents(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestNewEventStore_Invalid(t *testing.T) {
	_, err := NewEventStore("bad;name", schema.SQLiteBackend, filepath.Join(t.TempDir(), "x.db"))
	assert.Error(t, err)

	_, err = NewEventStore(eventsTable, schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
}

func TestPersistUtils(t *testing.T) {
	assert.NoError(t, validateTableName("activity_events"))
	assert.NoError(t, validateTableName("_t1"))
	assert.Error(t, validateTableName(""))
	assert.Error(t, validateTableName("1table"))
	assert.Error(t, validateTableName("events; DROP TABLE x"))

	assert.Equal(t, "`t`", quoteTableName("t", schema.MySQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.PostgreSQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.SQLiteBackend))
}

func TestStoreLifecycle(t *testing.T) {
	t.Run("sqlite setup", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test
		Manager = &EventStoreManager{}

		dbPath := filepath.Join(t.TempDir(), "events.db")
		assert.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		assert.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		assert.NotNil(t, Manager.GetEventStore())

		CloseStores()
		CloseStores()

		_, err := os.Stat(dbPath)
		assert.NoError(t, err, "Database file should be created")
	})

	t.Run("no backend", func(t *testing.T) {
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &EventStoreManager{}

		assert.NoError(t, InitStores("", ""))
		assert.Nil(t, Manager.GetEventStore())
		CloseStores()
	})
}

func TestClearEvents(t *testing.T) {
	_, dbPath := newSQLiteStore(t)
	require.NoError(t, ClearEvents(schema.SQLiteBackend, dbPath, ""))
	_, err := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Missing file is fine
	assert.NoError(t, ClearEvents(schema.SQLiteBackend, dbPath, ""))
	assert.Error(t, ClearEvents(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearEvents(schema.NoneBackend, "", ""))
	assert.Error(t, ClearEvents(schema.DatabaseBackend("oracle"), "", ""))
}

func TestMigrateEvents_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	var out bytes.Buffer

	require.NoError(t, MigrateEvents(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "Successfully migrated")

	out.Reset()
	require.NoError(t, MigrateEvents(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "No migration needed")

	// The migrated table is usable by the store
	store, err := NewEventStore(eventsTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.SaveEvents(context.Background(), sampleEvents())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	out.Reset()
	require.NoError(t, MigrateEvents(&out, schema.SQLiteBackend, dbPath, 0))
	assert.Contains(t, out.String(), "rolled back")

	assert.Error(t, MigrateEvents(&out, schema.NoneBackend, "", -1))
}

func TestExportEvents(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()
	_, err := store.SaveEvents(ctx, sampleEvents())
	require.NoError(t, err)

	outputPath := filepath.Join(t.TempDir(), "export.parquet")
	var out bytes.Buffer
	require.NoError(t, ExportEvents(ctx, &out, store, outputPath))
	assert.Contains(t, out.String(), "3 daily points")

	rows, err := parquet.ReadDataPointsParquet(outputPath)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-01-01", rows[0].Date)
	assert.Equal(t, int64(10), rows[0].Additions)

	assert.Error(t, ExportEvents(ctx, &out, store, ""))
}

func TestExportEvents_Mocked(t *testing.T) {
	ctx := context.Background()

	empty := &MockEventStore{}
	empty.On("GetStatus").Return(schema.EventStoreStatus{Backend: "mysql", Connected: true}, nil)
	err := ExportEvents(ctx, &bytes.Buffer{}, empty, "out.parquet")
	assert.EqualError(t, err, "no events found to export")
	empty.AssertExpectations(t)

	failing := &MockEventStore{}
	failing.On("GetStatus").Return(schema.EventStoreStatus{TotalEvents: 1}, nil)
	failing.On("LoadEvents", mock.Anything, time.Time{}, time.Time{}).Return(nil, errors.New("boom"))
	err = ExportEvents(ctx, &bytes.Buffer{}, failing, "out.parquet")
	assert.ErrorContains(t, err, "boom")
	failing.AssertExpectations(t)
}

func TestPrintEventStatus(t *testing.T) {
	var out bytes.Buffer
	PrintEventStatus(&out, schema.EventStoreStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalEvents:     12345,
		OldestEventTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		NewestEventTime: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		TableSizeBytes:  4096,
	})
	text := out.String()
	assert.Contains(t, text, "Event Backend: sqlite")
	assert.Contains(t, text, "Total Events: 12,345")
	assert.Contains(t, text, "Oldest Event: 2024-01-01 00:00:00")
	assert.Contains(t, text, "Table Size: 4.1 kB")

	out.Reset()
	PrintEventStatus(&out, schema.EventStoreStatus{Backend: "none"})
	assert.NotContains(t, out.String(), "Total Events")
}
