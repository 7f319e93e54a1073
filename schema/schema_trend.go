package schema

import "time"

// TrendMetric is one period-over-period delta.
type TrendMetric struct {
	Name          string  `json:"name"`
	CurrentValue  float64 `json:"current_value"`
	PreviousValue float64 `json:"previous_value"`
	PercentChange float64 `json:"percent_change"` // 0 when the previous value is 0
}

// TrendResult holds the compared windows and their metrics.
type TrendResult struct {
	CurrentStart  time.Time     `json:"current_start"`
	CurrentEnd    time.Time     `json:"current_end"`
	PreviousStart time.Time     `json:"previous_start"`
	PreviousEnd   time.Time     `json:"previous_end"`
	Metrics       []TrendMetric `json:"metrics"`
}
