package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/huangsam/churnchart/core/agg"
	"github.com/huangsam/churnchart/internal/contract"
	"github.com/huangsam/churnchart/internal/observability"
	"github.com/huangsam/churnchart/internal/source"
	"github.com/huangsam/churnchart/schema"
)

// activity is the normalized input of one run.
type activity struct {
	events  []schema.RawEvent
	buckets []schema.DailyBucket // set when the input was already per-day
	report  schema.NormalizeReport
}

// EventsFromBuckets turns per-day totals into one synthetic commit event per
// day at UTC midnight, so data-point inputs can be compared and stored like events.
func EventsFromBuckets(buckets []schema.DailyBucket) []schema.RawEvent {
	events := make([]schema.RawEvent, len(buckets))
	for i, b := range buckets {
		events[i] = schema.RawEvent{
			ID:           "day-" + b.Day(),
			Timestamp:    agg.DayOf(b.Date),
			Kind:         schema.CommitEvent,
			Additions:    b.Additions,
			Deletions:    b.Deletions,
			Commits:      b.Commits,
			FilesChanged: b.FilesChanged,
		}
	}
	return events
}

// normalizeInput runs the normalizer over whichever shape the file had.
func normalizeInput(ctx context.Context, in *source.Input, includeBots bool) *activity {
	done := metricsFrom(ctx).StartPass(observability.PassNormalize)
	defer done()

	if in.IsPoints() {
		buckets, report := agg.FromDataPoints(in.Points)
		return &activity{events: EventsFromBuckets(buckets), buckets: buckets, report: report}
	}
	events, report := NormalizeRecords(in.Records, NormalizeOptions{IncludeBots: includeBots})
	return &activity{events: events, report: report}
}

// loadActivity reads events from the configured source and normalizes them.
func loadActivity(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*activity, error) {
	var act *activity
	switch cfg.Source {
	case schema.DBSource:
		store := storeFrom(mgr)
		if store == nil {
			return nil, fmt.Errorf("event store is not initialized")
		}
		events, err := store.LoadEvents(ctx, time.Time{}, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("failed to load events: %w", err)
		}
		kept, dropped := FilterBots(events, cfg.IncludeBots)
		act = &activity{
			events: kept,
			report: schema.NormalizeReport{Accepted: len(kept), SkippedBots: dropped},
		}
	default:
		if cfg.InputPath == "" {
			return nil, contract.ErrNoInput
		}
		in, err := source.Load(cfg.InputPath)
		if err != nil {
			return nil, err
		}
		act = normalizeInput(ctx, in, cfg.IncludeBots)
	}

	metricsFrom(ctx).RecordSkipped(act.report)
	if skipped := act.report.Skipped(); skipped > 0 {
		slog.Warn("skipped input records",
			"timestamp", act.report.SkippedTimestamp,
			"negative", act.report.SkippedNegative,
			"bots", act.report.SkippedBots)
	}
	slog.Debug("loaded activity", "source", cfg.Source, "events", len(act.events), "accepted", act.report.Accepted)
	return act, nil
}

// storeFrom returns the manager's store, tolerating a nil manager.
func storeFrom(mgr contract.StoreManager) contract.EventStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetEventStore()
}
