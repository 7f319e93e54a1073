package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/churnchart/internal/contract"
	"github.com/huangsam/churnchart/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// ErrMissingEventID is returned when an event without an ID is saved.
var ErrMissingEventID = errors.New("event has no id")

// EventStoreImpl handles durable event storage using various database backends.
type EventStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
	now       func() time.Time
}

var _ contract.EventStore = &EventStoreImpl{} // Compile-time check

// NewEventStore initializes and returns a new EventStore based on the backend type.
func NewEventStore(tableName string, backend schema.DatabaseBackend, connStr string) (*EventStoreImpl, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		// No-op store for disabled persistence
		return &EventStoreImpl{tableName: tableName, backend: backend, connStr: connStr, now: time.Now}, nil
	}

	driverName, err := driverFor(backend)
	if err != nil {
		return nil, fmt.Errorf("unsupported event backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	dsn := connStr
	if backend == schema.SQLiteBackend && dsn == "" {
		dsn = GetDBFilePath()
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s event store: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if _, err := db.Exec(getCreateTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &EventStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
		now:       time.Now,
	}, nil
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				event_id VARCHAR(128) PRIMARY KEY,
				event_kind VARCHAR(32) NOT NULL,
				author VARCHAR(255) NOT NULL,
				occurred_at BIGINT NOT NULL,
				additions INT NOT NULL,
				deletions INT NOT NULL,
				commits INT NOT NULL,
				files_changed INT NOT NULL,
				imported_at BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				event_id TEXT PRIMARY KEY,
				event_kind TEXT NOT NULL,
				author TEXT NOT NULL,
				occurred_at BIGINT NOT NULL,
				additions INTEGER NOT NULL,
				deletions INTEGER NOT NULL,
				commits INTEGER NOT NULL,
				files_changed INTEGER NOT NULL,
				imported_at BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				event_id TEXT PRIMARY KEY,
				event_kind TEXT NOT NULL,
				author TEXT NOT NULL,
				occurred_at INTEGER NOT NULL,
				additions INTEGER NOT NULL,
				deletions INTEGER NOT NULL,
				commits INTEGER NOT NULL,
				files_changed INTEGER NOT NULL,
				imported_at INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// SaveEvents upserts events by ID inside one transaction.
func (es *EventStoreImpl) SaveEvents(ctx context.Context, events []schema.RawEvent) (int, error) {
	if es.backend == schema.NoneBackend || es.db == nil {
		return 0, nil
	}

	tx, err := es.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, es.getUpsertQuery())
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	importedAt := es.now().Unix()
	written := 0
	for _, e := range events {
		if e.ID == "" {
			return 0, fmt.Errorf("%w at %s", ErrMissingEventID, e.Timestamp.Format(time.RFC3339))
		}
		if _, err := stmt.ExecContext(ctx,
			e.ID, string(e.Kind), e.Author, e.Timestamp.Unix(),
			e.Additions, e.Deletions, e.Commits, e.FilesChanged, importedAt,
		); err != nil {
			return 0, fmt.Errorf("failed to save event %s: %w", e.ID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit events: %w", err)
	}
	return written, nil
}

// LoadEvents returns events with start <= timestamp < end, oldest first.
// A zero start or end leaves that side unbounded.
func (es *EventStoreImpl) LoadEvents(ctx context.Context, start, end time.Time) ([]schema.RawEvent, error) {
	events := []schema.RawEvent{}
	if es.backend == schema.NoneBackend || es.db == nil {
		return events, nil
	}

	var conds []string
	var args []any
	if !start.IsZero() {
		args = append(args, start.Unix())
		conds = append(conds, "occurred_at >= "+es.placeholder(len(args)))
	}
	if !end.IsZero() {
		args = append(args, end.Unix())
		conds = append(conds, "occurred_at < "+es.placeholder(len(args)))
	}

	query := fmt.Sprintf(`SELECT event_id, event_kind, author, occurred_at, additions, deletions, commits, files_changed FROM %s`,
		quoteTableName(es.tableName, es.backend))
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY occurred_at, event_id"

	rows, err := es.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var e schema.RawEvent
		var kind string
		var ts int64
		if err := rows.Scan(&e.ID, &kind, &e.Author, &ts, &e.Additions, &e.Deletions, &e.Commits, &e.FilesChanged); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Kind = schema.EventKind(kind)
		e.Timestamp = time.Unix(ts, 0).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// placeholder returns the n-th (1-based) parameter placeholder for the backend.
func (es *EventStoreImpl) placeholder(n int) string {
	if es.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// getUpsertQuery returns the UPSERT query for the backend.
func (es *EventStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(es.tableName, es.backend)
	const columns = "event_id, event_kind, author, occurred_at, additions, deletions, commits, files_changed, imported_at"
	switch es.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE event_kind = new.event_kind, author = new.author, occurred_at = new.occurred_at,
			additions = new.additions, deletions = new.deletions, commits = new.commits,
			files_changed = new.files_changed, imported_at = new.imported_at`, quotedTableName, columns)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (event_id) DO UPDATE SET event_kind = EXCLUDED.event_kind, author = EXCLUDED.author,
			occurred_at = EXCLUDED.occurred_at, additions = EXCLUDED.additions, deletions = EXCLUDED.deletions,
			commits = EXCLUDED.commits, files_changed = EXCLUDED.files_changed, imported_at = EXCLUDED.imported_at`, quotedTableName, columns)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, quotedTableName, columns)
	}
}

// Close closes the underlying DB connection.
func (es *EventStoreImpl) Close() error {
	if es.db != nil {
		return es.db.Close()
	}
	return nil
}

// GetStatus returns status information about the event store.
func (es *EventStoreImpl) GetStatus() (schema.EventStoreStatus, error) {
	status := schema.EventStoreStatus{
		Backend:   string(es.backend),
		Connected: es.db != nil,
	}

	if es.backend == schema.NoneBackend || es.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(es.tableName, es.backend)

	row := es.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName))
	if err := row.Scan(&status.TotalEvents); err != nil {
		return status, fmt.Errorf("failed to get total events: %w", err)
	}

	if status.TotalEvents == 0 {
		return status, nil
	}

	var oldestTs, newestTs int64
	row = es.db.QueryRow(fmt.Sprintf("SELECT MIN(occurred_at), MAX(occurred_at) FROM %s", quotedTableName))
	if err := row.Scan(&oldestTs, &newestTs); err != nil {
		return status, fmt.Errorf("failed to get event time range: %w", err)
	}
	status.OldestEventTime = time.Unix(oldestTs, 0).UTC()
	status.NewestEventTime = time.Unix(newestTs, 0).UTC()

	status.TableSizeBytes = es.tableSize(status.TotalEvents)
	return status, nil
}

// tableSize estimates the on-disk size of the table, falling back to a rough
// per-row estimate when the backend cannot report it.
func (es *EventStoreImpl) tableSize(totalEvents int) int64 {
	fallback := int64(totalEvents) * 200
	var size int64

	switch es.backend {
	case schema.SQLiteBackend:
		row := es.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(es.connStr)
		if err != nil || cfg.DBName == "" {
			return fallback
		}
		row := es.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, es.tableName)
		if err := row.Scan(&size); err != nil {
			return fallback
		}
		return size

	case schema.PostgreSQLBackend:
		row := es.db.QueryRow("SELECT pg_total_relation_size($1)", es.tableName)
		if err := row.Scan(&size); err != nil {
			return fallback
		}
		return size

	default:
		return fallback
	}
}
