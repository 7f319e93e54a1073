package interact

import (
	"github.com/huangsam/churnchart/internal/scene"
	"github.com/huangsam/churnchart/schema"
)

// Tooltip is what the cursor points at.
type Tooltip struct {
	ScreenX float64                 `json:"screen_x"`
	ScreenY float64                 `json:"screen_y"`
	Index   int                     `json:"index"`
	Bucket  schema.DailyBucket      `json:"bucket"`
	Candle  schema.CandlestickPoint `json:"candle"`
}

// Correlator maps cursor positions back to series entries with the same
// x-transform the renderer uses.
type Correlator struct {
	layout  scene.Layout
	series  schema.DenseSeries
	candles []schema.CandlestickPoint
}

// NewCorrelator builds a correlator for a surface and its projected series.
// candles[i] must be the projection of series[i].
func NewCorrelator(width, height float64, series schema.DenseSeries, candles []schema.CandlestickPoint) *Correlator {
	return &Correlator{
		layout:  scene.NewLayout(width, height, len(series)),
		series:  series,
		candles: candles,
	}
}

// BucketAt returns the tooltip for a cursor position, or nil when the cursor
// is off the surface, past the last slot, or nothing is drawn.
func (c *Correlator) BucketAt(x, y float64) *Tooltip {
	if len(c.series) < 2 || !c.layout.Contains(x, y) {
		return nil
	}
	i := c.layout.IndexAt(x)
	if i < 0 || i >= len(c.series) {
		return nil
	}
	tip := &Tooltip{
		ScreenX: c.layout.SlotCenter(i),
		ScreenY: y,
		Index:   i,
		Bucket:  c.series[i],
	}
	if i < len(c.candles) {
		tip.Candle = c.candles[i]
	}
	return tip
}
