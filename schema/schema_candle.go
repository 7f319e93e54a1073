package schema

import "time"

// Dominance classification tunables.
const (
	// DominanceZeroGuard is added to the ratio denominator so that empty days
	// never divide by zero. It also biases low-volume days toward balanced.
	DominanceZeroGuard = 1.0

	// AdditionsThreshold is the ratio above which a bucket is additions-dominant.
	AdditionsThreshold = 0.6

	// DeletionsThreshold is the ratio below which a bucket is deletions-dominant.
	DeletionsThreshold = 0.4

	// WickExtension is the multiplier applied to the body top to place the wick.
	WickExtension = 1.1
)

// CandlestickPoint is the chart primitive derived 1:1 from a dense series entry.
// Index i always corresponds to day i of the series it was projected from.
type CandlestickPoint struct {
	Index     int       `json:"index" parquet:"index"`
	Date      time.Time `json:"date" parquet:"date"`
	Low       float64   `json:"low" parquet:"low"`
	Open      float64   `json:"open" parquet:"open"`
	Close     float64   `json:"close" parquet:"close"`
	High      float64   `json:"high" parquet:"high"`
	Volume    int       `json:"volume" parquet:"volume"`
	Ratio     float64   `json:"ratio" parquet:"ratio"`
	Dominance Dominance `json:"dominance" parquet:"dominance"`
	Bullish   bool      `json:"bullish" parquet:"bullish"` // additions >= deletions
}

// DominanceRatio returns additions' share of total change for a bucket.
func DominanceRatio(additions, deletions int) float64 {
	return float64(additions) / (float64(additions+deletions) + DominanceZeroGuard)
}

// ClassifyRatio maps a dominance ratio to exactly one class.
// Both thresholds themselves are classified as balanced.
func ClassifyRatio(ratio float64) Dominance {
	switch {
	case ratio > AdditionsThreshold:
		return AdditionsDominant
	case ratio < DeletionsThreshold:
		return DeletionsDominant
	default:
		return Balanced
	}
}

// ClassifyBucket classifies a bucket by its dominance ratio.
func ClassifyBucket(b DailyBucket) Dominance {
	return ClassifyRatio(DominanceRatio(b.Additions, b.Deletions))
}
