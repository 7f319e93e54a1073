// Package parquet provides data structures and functions for exchanging churnchart
// daily activity and candle data as Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/churnchart/schema"
	"github.com/parquet-go/parquet-go"
)

// DataPoint is one day of activity. It is the on-disk form of schema.ActivityDataPoint
// and is accepted as chart input as well as produced by the buckets export.
type DataPoint struct {
	// Date is the ISO-8601 calendar day (YYYY-MM-DD)
	Date string `parquet:"date,snappy"`

	Additions    int64 `parquet:"additions,snappy"`
	Deletions    int64 `parquet:"deletions,snappy"`
	Commits      int64 `parquet:"commits,snappy"`
	FilesChanged int64 `parquet:"files_changed,snappy"`
}

// Candle is one projected candlestick of the chart export.
type Candle struct {
	// Index is the position of the candle in the dense series
	Index int32 `parquet:"index,snappy"`

	// Date is UTC midnight of the bucket (stored as TIMESTAMP with nanosecond precision)
	Date time.Time `parquet:"date,snappy"`

	Low   float64 `parquet:"low,snappy"`
	Open  float64 `parquet:"open,snappy"`
	Close float64 `parquet:"close,snappy"`
	High  float64 `parquet:"high,snappy"`

	// Volume is additions plus deletions
	Volume int64 `parquet:"volume,snappy"`

	// Ratio is the dominance ratio a/(a+d+1)
	Ratio float64 `parquet:"ratio,snappy"`

	// Dominance is one of additions, deletions or balanced
	Dominance string `parquet:"dominance,snappy"`

	Bullish bool `parquet:"bullish,snappy"`
}

// WriteDataPointsParquet writes a slice of DataPoint structs to a Parquet file.
func WriteDataPointsParquet(data []DataPoint, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteCandlesParquet writes a slice of Candle structs to a Parquet file.
func WriteCandlesParquet(data []Candle, outputPath string) error {
	return writeRows(data, outputPath)
}

// ReadDataPointsParquet reads every DataPoint row from a Parquet file.
func ReadDataPointsParquet(inputPath string) ([]DataPoint, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[DataPoint](file)
	defer func() { _ = reader.Close() }()

	rows := make([]DataPoint, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read data from parquet file: %w", err)
	}
	return rows[:n], nil
}

func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to flush parquet file: %w", err)
	}
	return nil
}

// ConvertDataPoints converts input contract points into Parquet rows.
func ConvertDataPoints(points []schema.ActivityDataPoint) []DataPoint {
	out := make([]DataPoint, len(points))
	for i, p := range points {
		out[i] = DataPoint{
			Date:         p.Date,
			Additions:    int64(p.Additions),
			Deletions:    int64(p.Deletions),
			Commits:      int64(p.Commits),
			FilesChanged: int64(p.FilesChanged),
		}
	}
	return out
}

// ToActivityDataPoints converts Parquet rows back into the input contract.
func ToActivityDataPoints(rows []DataPoint) []schema.ActivityDataPoint {
	out := make([]schema.ActivityDataPoint, len(rows))
	for i, r := range rows {
		out[i] = schema.ActivityDataPoint{
			Date:         r.Date,
			Additions:    int(r.Additions),
			Deletions:    int(r.Deletions),
			Commits:      int(r.Commits),
			FilesChanged: int(r.FilesChanged),
		}
	}
	return out
}

// ConvertCandles converts projected candles into Parquet rows.
func ConvertCandles(candles []schema.CandlestickPoint) []Candle {
	out := make([]Candle, len(candles))
	for i, c := range candles {
		out[i] = Candle{
			Index:     int32(c.Index),
			Date:      c.Date,
			Low:       c.Low,
			Open:      c.Open,
			Close:     c.Close,
			High:      c.High,
			Volume:    int64(c.Volume),
			Ratio:     c.Ratio,
			Dominance: string(c.Dominance),
			Bullish:   c.Bullish,
		}
	}
	return out
}
