// Package source loads activity input files. JSON and CSV files may hold either
// raw contribution records or per-day data points; Parquet files hold data points.
package source

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/churnchart/internal/parquet"
	"github.com/huangsam/churnchart/schema"
)

// ErrUnknownFormat is returned when neither records nor data points are recognized.
var ErrUnknownFormat = errors.New("unrecognized input format")

// Input is the content of one loaded file. Exactly one of the slices is populated.
type Input struct {
	Records []schema.SourceRecord
	Points  []schema.ActivityDataPoint
}

// IsPoints reports whether the input carries pre-aggregated data points.
func (in *Input) IsPoints() bool {
	return in.Points != nil
}

// Len returns the number of loaded rows.
func (in *Input) Len() int {
	return len(in.Records) + len(in.Points)
}

// Load reads the file at path and dispatches on its extension.
func Load(path string) (*Input, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		rows, err := parquet.ReadDataPointsParquet(path)
		if err != nil {
			return nil, err
		}
		return &Input{Points: parquet.ToActivityDataPoints(rows)}, nil
	case ".json", ".csv":
	default:
		return nil, fmt.Errorf("unsupported input extension %q (want .json, .csv or .parquet)", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ParseCSV(bytes.NewReader(data))
	}
	return ParseJSON(data)
}

// ParseJSON decodes a JSON array of records or data points.
// The first element decides: a "date" key means data points, "created_at" means records.
func ParseJSON(data []byte) (*Input, error) {
	var probe []map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode input JSON: %w", err)
	}
	if len(probe) == 0 {
		return &Input{Points: []schema.ActivityDataPoint{}}, nil
	}

	first := probe[0]
	switch {
	case has(first, "date"):
		var points []schema.ActivityDataPoint
		if err := json.Unmarshal(data, &points); err != nil {
			return nil, fmt.Errorf("failed to decode data points: %w", err)
		}
		return &Input{Points: points}, nil
	case has(first, "created_at"):
		var records []schema.SourceRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to decode records: %w", err)
		}
		return &Input{Records: records}, nil
	default:
		return nil, ErrUnknownFormat
	}
}

// ParseCSV decodes a CSV file with a header row, using the same column detection as ParseJSON.
// Empty numeric cells are treated as missing.
func ParseCSV(r io.Reader) (*Input, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Input{Points: []schema.ActivityDataPoint{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV rows: %w", err)
	}

	switch {
	case hasCol(cols, "date"):
		points := make([]schema.ActivityDataPoint, 0, len(rows))
		for n, row := range rows {
			p, err := parsePointRow(cols, row)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", n+2, err)
			}
			points = append(points, p)
		}
		return &Input{Points: points}, nil
	case hasCol(cols, "created_at"):
		records := make([]schema.SourceRecord, 0, len(rows))
		for n, row := range rows {
			rec, err := parseRecordRow(cols, row)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", n+2, err)
			}
			records = append(records, rec)
		}
		return &Input{Records: records}, nil
	default:
		return nil, ErrUnknownFormat
	}
}

func parsePointRow(cols map[string]int, row []string) (schema.ActivityDataPoint, error) {
	p := schema.ActivityDataPoint{Date: cell(cols, row, "date")}
	for name, dst := range map[string]*int{
		"additions":     &p.Additions,
		"deletions":     &p.Deletions,
		"commits":       &p.Commits,
		"files_changed": &p.FilesChanged,
	} {
		v, err := optionalInt(cols, row, name)
		if err != nil {
			return p, err
		}
		if v != nil {
			*dst = *v
		}
	}
	return p, nil
}

func parseRecordRow(cols map[string]int, row []string) (schema.SourceRecord, error) {
	rec := schema.SourceRecord{
		Kind:      schema.EventKind(cell(cols, row, "kind")),
		ID:        cell(cols, row, "id"),
		Author:    cell(cols, row, "author"),
		CreatedAt: cell(cols, row, "created_at"),
		MergedAt:  cell(cols, row, "merged_at"),
		ClosedAt:  cell(cols, row, "closed_at"),
	}
	var err error
	if rec.Additions, err = optionalInt(cols, row, "additions"); err != nil {
		return rec, err
	}
	if rec.Deletions, err = optionalInt(cols, row, "deletions"); err != nil {
		return rec, err
	}
	if rec.Commits, err = optionalInt(cols, row, "commits"); err != nil {
		return rec, err
	}
	if rec.ChangedFiles, err = optionalInt(cols, row, "changed_files"); err != nil {
		return rec, err
	}
	return rec, nil
}

func optionalInt(cols map[string]int, row []string, name string) (*int, error) {
	raw := cell(cols, row, name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return &v, nil
}

func cell(cols map[string]int, row []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func has(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}

func hasCol(cols map[string]int, key string) bool {
	_, ok := cols[key]
	return ok
}
