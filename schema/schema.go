// Package schema has the models and typed constants shared by every part of churnchart.
package schema

import "time"

// RawEvent is one normalized contribution event.
// All magnitudes are non-negative; records that would violate this are dropped
// during normalization.
type RawEvent struct {
	ID           string    `json:"id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Kind         EventKind `json:"kind"`
	Author       string    `json:"author,omitempty"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	Commits      int       `json:"commits"`
	FilesChanged int       `json:"files_changed"`
}

// SourceRecord is a heterogeneous raw record as produced by the fetch layer
// (pull request, issue, push, star or fork). Only the timestamp is mandatory.
type SourceRecord struct {
	Kind         EventKind `json:"kind"`
	ID           string    `json:"id,omitempty"`
	Author       string    `json:"author,omitempty"`
	CreatedAt    string    `json:"created_at"`
	MergedAt     string    `json:"merged_at,omitempty"`
	ClosedAt     string    `json:"closed_at,omitempty"`
	Additions    *int      `json:"additions,omitempty"`
	Deletions    *int      `json:"deletions,omitempty"`
	Commits      *int      `json:"commits,omitempty"`
	ChangedFiles *int      `json:"changed_files,omitempty"`
}

// ActivityDataPoint is the per-day input contract consumed by the chart.
// Ascending date order is not required.
type ActivityDataPoint struct {
	Date         string `json:"date" parquet:"date"`
	Additions    int    `json:"additions" parquet:"additions"`
	Deletions    int    `json:"deletions" parquet:"deletions"`
	Commits      int    `json:"commits" parquet:"commits"`
	FilesChanged int    `json:"files_changed" parquet:"files_changed"`
}

// NormalizeReport counts what the normalizer accepted and skipped.
type NormalizeReport struct {
	Accepted         int `json:"accepted"`
	SkippedTimestamp int `json:"skipped_timestamp"` // unparseable or missing timestamp
	SkippedNegative  int `json:"skipped_negative"`  // negative magnitude
	SkippedBots      int `json:"skipped_bots"`      // bot authors when bots are excluded
}

// Skipped returns the total number of dropped records.
func (r NormalizeReport) Skipped() int {
	return r.SkippedTimestamp + r.SkippedNegative + r.SkippedBots
}
