package core

import (
	"context"
	"time"

	"github.com/huangsam/churnchart/core/agg"
	"github.com/huangsam/churnchart/internal/observability"
	"github.com/huangsam/churnchart/schema"
)

// WindowBounds returns the first and last calendar day covered by a window
// that ends on the day of end. WindowAll has no lower bound and returns a zero start.
func WindowBounds(window schema.Window, end time.Time) (first, last time.Time) {
	last = agg.DayOf(end)
	days, ok := schema.WindowDays[window]
	if !ok {
		return time.Time{}, last
	}
	return agg.AddDays(last, -(days - 1)), last
}

// FilterWindow keeps the buckets whose day falls inside the window ending on
// the day of end. The input is not modified.
func FilterWindow(buckets []schema.DailyBucket, window schema.Window, end time.Time) []schema.DailyBucket {
	first, last := WindowBounds(window, end)
	kept := make([]schema.DailyBucket, 0, len(buckets))
	for _, b := range buckets {
		d := agg.DayOf(b.Date)
		if d.After(last) || (!first.IsZero() && d.Before(first)) {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

// BuildSeries runs window filtering and gap filling over aggregated buckets.
// Bounded windows are gap-filled; WindowAll only keeps active days.
func BuildSeries(buckets []schema.DailyBucket, window schema.Window, end time.Time) schema.DenseSeries {
	return agg.FillGapsForWindow(FilterWindow(buckets, window, end), window)
}

// BuildChartResult projects a series into candles and summarizes it.
func BuildChartResult(series schema.DenseSeries, report schema.NormalizeReport) schema.ChartResult {
	return schema.ChartResult{
		Summary: agg.Summarize(series),
		Report:  report,
		Series:  series,
		Candles: agg.ProjectCandles(series),
	}
}

// timedPass runs fn as one named pass, recording it in the context metrics.
func timedPass[T any](ctx context.Context, pass string, fn func() T) T {
	done := metricsFrom(ctx).StartPass(pass)
	defer done()
	return fn()
}

// buildPipeline runs aggregate, window and fill passes for loaded activity.
func buildPipeline(ctx context.Context, act *activity, window schema.Window, end time.Time) schema.DenseSeries {
	buckets := act.buckets
	if buckets == nil {
		buckets = timedPass(ctx, observability.PassAggregate, func() []schema.DailyBucket {
			return agg.AggregateDaily(act.events)
		})
	}
	return timedPass(ctx, observability.PassFillGaps, func() schema.DenseSeries {
		return BuildSeries(buckets, window, end)
	})
}
