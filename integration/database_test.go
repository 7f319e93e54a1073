//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestEventsWithMySQL tests the event store commands against a MySQL backend.
func TestEventsWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "churnchart",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/churnchart?parseTime=true", host, port.Port())
	runEventsRoundTrip(t, "mysql", connStr)
}

// TestEventsWithPostgres tests the event store commands against a PostgreSQL backend.
func TestEventsWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runEventsRoundTrip(t, "postgresql", connStr)
}

// runEventsRoundTrip imports the fixture, then charts and compares it from the store.
func runEventsRoundTrip(t *testing.T, backend, connStr string) {
	t.Setenv("CHURNCHART_EVENT_BACKEND", backend)
	t.Setenv("CHURNCHART_EVENT_DB_CONNECT", connStr)

	activity := writeActivity(t)
	outDir := t.TempDir()

	_, err := runCommand(t, "events", "clear")
	require.NoError(t, err)

	out, err := runCommand(t, "events", "import", activity)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 events (1 skipped)")

	// A second import upserts by id
	_, err = runCommand(t, "events", "import", activity)
	require.NoError(t, err)

	out, err = runCommand(t, "events", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Events: 3")

	svg := filepath.Join(outDir, "churn.svg")
	_, err = runCommand(t, "chart", "--source", "db", "--window", "7d", "--end", "2024-03-13T00:00:00Z", "--output-file", svg)
	require.NoError(t, err)
	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	out, err = runCommand(t, "trend", "--source", "db", "--end", "2024-03-13T00:00:00Z", "--output", "csv", "--metrics", "additions")
	require.NoError(t, err)
	assert.Contains(t, out, "additions,125")

	points := filepath.Join(outDir, "points.parquet")
	_, err = runCommand(t, "events", "export", "--output-file", points)
	require.NoError(t, err)
	assert.FileExists(t, points)
}
