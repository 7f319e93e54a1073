package schema

// BucketsResult is the output of the buckets command.
type BucketsResult struct {
	Dense   bool            `json:"dense"`
	Report  NormalizeReport `json:"report"`
	Buckets []DailyBucket   `json:"buckets"`
}

// ChartResult is the data behind one rendered chart.
type ChartResult struct {
	Summary SeriesSummary      `json:"summary"`
	Report  NormalizeReport    `json:"report"`
	Series  DenseSeries        `json:"series"`
	Candles []CandlestickPoint `json:"candles"`
}

// ToDataPoints converts buckets back into the per-day input contract.
func ToDataPoints(buckets []DailyBucket) []ActivityDataPoint {
	points := make([]ActivityDataPoint, len(buckets))
	for i, b := range buckets {
		points[i] = ActivityDataPoint{
			Date:         b.Day(),
			Additions:    b.Additions,
			Deletions:    b.Deletions,
			Commits:      b.Commits,
			FilesChanged: b.FilesChanged,
		}
	}
	return points
}
