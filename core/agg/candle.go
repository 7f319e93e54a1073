package agg

import "github.com/huangsam/churnchart/schema"

// ProjectCandles maps each dense series entry to its candlestick primitive.
// The output has the same length and order as the input: point i is day i.
func ProjectCandles(series schema.DenseSeries) []schema.CandlestickPoint {
	points := make([]schema.CandlestickPoint, len(series))
	for i, b := range series {
		points[i] = ProjectBucket(i, b)
	}
	return points
}

// ProjectBucket builds one candlestick from a bucket.
func ProjectBucket(index int, b schema.DailyBucket) schema.CandlestickPoint {
	a, d := float64(b.Additions), float64(b.Deletions)
	ratio := schema.DominanceRatio(b.Additions, b.Deletions)
	return schema.CandlestickPoint{
		Index:     index,
		Date:      b.Date,
		Low:       0,
		Open:      min(a, d),
		Close:     max(a, d),
		High:      max(a, d) * schema.WickExtension,
		Volume:    b.Volume(),
		Ratio:     ratio,
		Dominance: schema.ClassifyRatio(ratio),
		Bullish:   b.Additions >= b.Deletions,
	}
}

// Summarize derives the axis-scaling summary of a series.
func Summarize(series schema.DenseSeries) schema.SeriesSummary {
	summary := schema.SeriesSummary{PointCount: len(series)}
	for _, b := range series {
		summary.MaxVolume = max(summary.MaxVolume, b.Volume())
	}
	return summary
}
