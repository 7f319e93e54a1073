package agg

import (
	"slices"

	"github.com/huangsam/churnchart/schema"
)

// FillGaps expands a sparse bucket list into a dense daily series covering
// the first through last observed day. Missing days become zero-valued buckets.
// When fillGaps is false or the input is empty, the (sorted) input is returned
// unchanged. The input slice is never modified.
func FillGaps(buckets []schema.DailyBucket, fillGaps bool) schema.DenseSeries {
	sorted := slices.Clone(buckets)
	SortBuckets(sorted)

	if !fillGaps || len(sorted) == 0 {
		if sorted == nil {
			return schema.DenseSeries{}
		}
		return schema.DenseSeries(sorted)
	}

	first := DayOf(sorted[0].Date)
	last := DayOf(sorted[len(sorted)-1].Date)
	span := DaysBetween(first, last) + 1

	byDay := make(map[int]schema.DailyBucket, len(sorted))
	for _, b := range sorted {
		offset := DaysBetween(first, b.Date)
		// Callers pass aggregated buckets, but merge defensively if a day repeats.
		if existing, ok := byDay[offset]; ok {
			existing.Additions += b.Additions
			existing.Deletions += b.Deletions
			existing.Commits += b.Commits
			existing.FilesChanged += b.FilesChanged
			byDay[offset] = existing
			continue
		}
		b.Date = DayOf(b.Date)
		byDay[offset] = b
	}

	dense := make(schema.DenseSeries, span)
	for i := range span {
		if b, ok := byDay[i]; ok {
			dense[i] = b
			continue
		}
		dense[i] = schema.DailyBucket{Date: AddDays(first, i)}
	}
	return dense
}

// FillGapsForWindow applies the window policy: "all time" is never gap-filled
// to keep the output bounded.
func FillGapsForWindow(buckets []schema.DailyBucket, window schema.Window) schema.DenseSeries {
	return FillGaps(buckets, window != schema.WindowAll)
}
