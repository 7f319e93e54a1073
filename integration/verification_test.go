//go:build basic

package integration

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBucketsVerification checks the CSV buckets against hand-computed daily sums.
func TestBucketsVerification(t *testing.T) {
	activity := writeActivity(t)

	csvPath := filepath.Join(t.TempDir(), "days.csv")
	out, err := runCommand(t, "buckets", activity, "--window", "all", "--output", "csv", "--output-file", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote CSV")

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	got := parseBuckets(rows)
	// merged pull requests count on the merge day and bots are dropped
	assert.Equal(t, map[string][2]string{
		"2024-03-04": {"0", "0"},
		"2024-03-11": {"120", "30"},
		"2024-03-12": {"5", "50"},
	}, got)
}

// TestChartVerification checks that each output mode of chart produces a file.
func TestChartVerification(t *testing.T) {
	activity := writeActivity(t)
	dir := t.TempDir()

	tests := []struct {
		output string
		file   string
		marker string
	}{
		{output: "svg", file: "churn.svg", marker: "<svg"},
		{output: "html", file: "churn.html", marker: "candlestick"},
		{output: "png", file: "churn.png", marker: "\x89PNG"},
		{output: "csv", file: "candles.csv", marker: "index,date,open,close,low,high"},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			_, err := runCommand(t, "chart", activity, "--window", "7d", "--end", "2024-03-13T00:00:00Z",
				"--output", tt.output, "--output-file", path, "--theme", "dark")
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.marker)
		})
	}
}

// TestTrendVerification checks the current and previous totals of a fixed period.
func TestTrendVerification(t *testing.T) {
	activity := writeActivity(t)

	out, err := runCommand(t, "trend", activity, "--end", "2024-03-13T00:00:00Z", "--period", "7 days",
		"--metrics", "additions,deletions", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "additions,125")
	assert.Contains(t, out, "deletions,80")
}

func parseBuckets(rows [][]string) map[string][2]string {
	result := make(map[string][2]string)
	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue // header
		}
		result[strings.TrimSpace(row[0])] = [2]string{row[1], row[2]}
	}
	return result
}
