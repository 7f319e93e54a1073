package schema

import "time"

// DayLayout is the canonical calendar-day representation (ISO-8601 date).
const DayLayout = "2006-01-02"

// DailyBucket holds one calendar day's aggregated totals.
// Date is always UTC midnight.
type DailyBucket struct {
	Date         time.Time `json:"date"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	Commits      int       `json:"commits"`
	FilesChanged int       `json:"files_changed"`
}

// Day returns the bucket's date as an ISO-8601 string.
func (b DailyBucket) Day() string {
	return b.Date.Format(DayLayout)
}

// Volume is the total change volume of the bucket.
func (b DailyBucket) Volume() int {
	return b.Additions + b.Deletions
}

// IsZero reports whether the bucket carries no activity at all.
func (b DailyBucket) IsZero() bool {
	return b.Additions == 0 && b.Deletions == 0 && b.Commits == 0 && b.FilesChanged == 0
}

// DenseSeries is an ascending, gap-free sequence of daily buckets.
// Renderer and cursor code address it by position, so ordering is load-bearing.
type DenseSeries []DailyBucket

// SeriesSummary is the derived axis-scaling summary consumed by legends and labels.
type SeriesSummary struct {
	PointCount int `json:"point_count"`
	MaxVolume  int `json:"max_volume"`
}
