package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/churnchart/core/agg"
	"github.com/huangsam/churnchart/internal/contract"
	"github.com/huangsam/churnchart/internal/parquet"
	"github.com/huangsam/churnchart/schema"
)

// ExportEvents aggregates every stored event into daily data points and writes
// them to a Parquet file that can be fed back as chart input.
func ExportEvents(ctx context.Context, w io.Writer, store contract.EventStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("event store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get event store status: %w", err)
	}
	if status.TotalEvents == 0 {
		return errors.New("no events found to export")
	}

	events, err := store.LoadEvents(ctx, time.Time{}, time.Time{})
	if err != nil {
		return fmt.Errorf("failed to retrieve events: %w", err)
	}

	points := schema.ToDataPoints(agg.AggregateDaily(events))
	if err := parquet.WriteDataPointsParquet(parquet.ConvertDataPoints(points), outputFile); err != nil {
		return fmt.Errorf("failed to write data points: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d events as %d daily points from %s backend to: %s\n",
		len(events), len(points), status.Backend, outputFile)
	return nil
}
