package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/churnchart/internal/parquet"
	"github.com/huangsam/churnchart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseJSON(t *testing.T) {
	t.Run("data points", func(t *testing.T) {
		in, err := ParseJSON([]byte(`[{"date":"2024-01-05","additions":3,"deletions":1,"commits":1,"files_changed":2}]`))
		require.NoError(t, err)
		assert.True(t, in.IsPoints())
		require.Len(t, in.Points, 1)
		assert.Equal(t, schema.ActivityDataPoint{Date: "2024-01-05", Additions: 3, Deletions: 1, Commits: 1, FilesChanged: 2}, in.Points[0])
	})

	t.Run("records", func(t *testing.T) {
		in, err := ParseJSON([]byte(`[
			{"kind":"pull_request","author":"alice","created_at":"2024-01-01T10:00:00Z","merged_at":"2024-01-02T09:00:00Z","additions":10},
			{"kind":"star","author":"bob","created_at":"2024-01-03T00:00:00Z"}
		]`))
		require.NoError(t, err)
		assert.False(t, in.IsPoints())
		require.Len(t, in.Records, 2)
		require.NotNil(t, in.Records[0].Additions)
		assert.Equal(t, 10, *in.Records[0].Additions)
		assert.Nil(t, in.Records[0].Deletions)
		assert.Equal(t, 2, in.Len())
	})

	t.Run("empty array", func(t *testing.T) {
		in, err := ParseJSON([]byte(`[]`))
		require.NoError(t, err)
		assert.Equal(t, 0, in.Len())
	})

	t.Run("unknown shape", func(t *testing.T) {
		_, err := ParseJSON([]byte(`[{"foo":1}]`))
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseJSON([]byte(`{not json`))
		assert.Error(t, err)
	})
}

func TestParseCSV(t *testing.T) {
	t.Run("data points", func(t *testing.T) {
		in, err := ParseCSV(strings.NewReader("date,additions,deletions,commits,files_changed\n2024-01-01,5,2,1,1\n2024-01-03,,7,,\n"))
		require.NoError(t, err)
		require.Len(t, in.Points, 2)
		assert.Equal(t, 5, in.Points[0].Additions)
		assert.Equal(t, 0, in.Points[1].Additions)
		assert.Equal(t, 7, in.Points[1].Deletions)
	})

	t.Run("records", func(t *testing.T) {
		in, err := ParseCSV(strings.NewReader("kind,author,created_at,additions,deletions\ncommit,alice,2024-02-01T12:00:00Z,4,\n"))
		require.NoError(t, err)
		require.Len(t, in.Records, 1)
		rec := in.Records[0]
		assert.Equal(t, schema.CommitEvent, rec.Kind)
		require.NotNil(t, rec.Additions)
		assert.Equal(t, 4, *rec.Additions)
		assert.Nil(t, rec.Deletions)
	})

	t.Run("bad number", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("date,additions\n2024-01-01,lots\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("unknown header", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("foo,bar\n1,2\n"))
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("empty file", func(t *testing.T) {
		in, err := ParseCSV(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, 0, in.Len())
	})
}

func TestLoad(t *testing.T) {
	jsonPath := writeFile(t, "points.json", `[{"date":"2024-01-01","additions":1}]`)
	in, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Len(t, in.Points, 1)

	csvPath := writeFile(t, "points.CSV", "date,additions\n2024-01-01,1\n")
	in, err = Load(csvPath)
	require.NoError(t, err)
	assert.Len(t, in.Points, 1)

	parquetPath := filepath.Join(t.TempDir(), "points.parquet")
	require.NoError(t, parquet.WriteDataPointsParquet([]parquet.DataPoint{{Date: "2024-01-01", Additions: 9}}, parquetPath))
	in, err = Load(parquetPath)
	require.NoError(t, err)
	require.Len(t, in.Points, 1)
	assert.Equal(t, 9, in.Points[0].Additions)

	_, err = Load(writeFile(t, "points.txt", "x"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
