// Package agg has the daily aggregation, gap-filling and candle projection passes over normalized events.
package agg

import (
	"sort"
	"time"

	"github.com/huangsam/churnchart/schema"
)

// AggregateDaily groups events by canonical calendar day and sums each day's
// magnitudes. The result is sorted ascending and only contains days with at
// least one event. Empty input yields an empty, non-nil slice.
func AggregateDaily(events []schema.RawEvent) []schema.DailyBucket {
	byDay := make(map[time.Time]*schema.DailyBucket, len(events))

	for _, e := range events {
		day := DayOf(e.Timestamp)
		b, ok := byDay[day]
		if !ok {
			b = &schema.DailyBucket{Date: day}
			byDay[day] = b
		}
		b.Additions += e.Additions
		b.Deletions += e.Deletions
		b.Commits += e.Commits
		b.FilesChanged += e.FilesChanged
	}

	buckets := make([]schema.DailyBucket, 0, len(byDay))
	for _, b := range byDay {
		buckets = append(buckets, *b)
	}
	SortBuckets(buckets)
	return buckets
}

// FromDataPoints converts per-day input points into buckets. Points with an
// unparseable date or a negative magnitude are dropped and counted. Several
// points on the same day are merged, so the output obeys the one-bucket-per-day rule.
func FromDataPoints(points []schema.ActivityDataPoint) ([]schema.DailyBucket, schema.NormalizeReport) {
	var report schema.NormalizeReport
	events := make([]schema.RawEvent, 0, len(points))

	for _, p := range points {
		day, err := ParseDay(p.Date)
		if err != nil {
			report.SkippedTimestamp++
			continue
		}
		if p.Additions < 0 || p.Deletions < 0 || p.Commits < 0 || p.FilesChanged < 0 {
			report.SkippedNegative++
			continue
		}
		events = append(events, schema.RawEvent{
			Timestamp:    day,
			Additions:    p.Additions,
			Deletions:    p.Deletions,
			Commits:      p.Commits,
			FilesChanged: p.FilesChanged,
		})
		report.Accepted++
	}

	return AggregateDaily(events), report
}

// SortBuckets sorts buckets ascending by date in place.
func SortBuckets(buckets []schema.DailyBucket) {
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})
}

// Totals sums every magnitude across buckets.
func Totals(buckets []schema.DailyBucket) schema.DailyBucket {
	var total schema.DailyBucket
	for _, b := range buckets {
		total.Additions += b.Additions
		total.Deletions += b.Deletions
		total.Commits += b.Commits
		total.FilesChanged += b.FilesChanged
	}
	return total
}
