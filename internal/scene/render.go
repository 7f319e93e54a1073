package scene

import (
	"math"

	"github.com/huangsam/churnchart/schema"
)

// DefaultEmptyMessage is drawn when there is not enough data to chart.
const DefaultEmptyMessage = "Not enough activity to chart"

// Options configures one render.
type Options struct {
	Width            float64
	Height           float64
	LogarithmicScale bool
	EmptyMessage     string
	Palette          Palette
}

// Stats describes what a render drew.
type Stats struct {
	Empty      bool `json:"empty"`
	VolumeBars int  `json:"volume_bars"`
	Candles    int  `json:"candles"`
	Malformed  int  `json:"malformed"`
}

// CandleGeometry is the screen placement of one candlestick.
// For a bullish candle CloseY is above OpenY; for a bearish one it is below.
type CandleGeometry struct {
	X      float64
	HighY  float64
	LowY   float64
	OpenY  float64
	CloseY float64
	Body   Rect
	Filled bool
}

// Render draws the scene for the given candles. Drawing the same candles with
// the same options always issues the same calls in the same order.
func Render(c Canvas, candles []schema.CandlestickPoint, opts Options) Stats {
	pal := opts.Palette
	c.FillRect(Rect{W: opts.Width, H: opts.Height}, pal.Background)

	if len(candles) < 2 {
		msg := opts.EmptyMessage
		if msg == "" {
			msg = DefaultEmptyMessage
		}
		c.Text(opts.Width/2, opts.Height/2, msg, pal.Text, 14)
		return Stats{Empty: true}
	}

	l := NewLayout(opts.Width, opts.Height, len(candles))
	c.Line(0, l.Candle.Bottom(), l.Width, l.Candle.Bottom(), pal.Axis, 1)
	c.Line(0, l.Volume.Bottom(), l.Width, l.Volume.Bottom(), pal.Axis, 1)

	var stats Stats
	maxHigh, maxVolume := 0.0, 0
	for _, p := range candles {
		if IsMalformed(p) {
			stats.Malformed++
			continue
		}
		maxHigh = math.Max(maxHigh, p.High)
		maxVolume = max(maxVolume, p.Volume)
	}

	if maxVolume > 0 {
		stats.VolumeBars = renderVolume(c, l, candles, maxVolume, pal)
	}

	ys := NewYScale(l.Candle, maxHigh, opts.LogarithmicScale)
	c.PushClip(l.Candle)
	for i, p := range candles {
		g := Geometry(l, ys, i, p)
		if IsMalformed(p) {
			c.FillRect(Rect{X: g.X - l.BarWidth/2, Y: l.Candle.Bottom(), W: l.BarWidth}, pal.Balanced.WithAlpha(0))
			continue
		}
		color := pal.ForDominance(p.Dominance)
		c.Line(g.X, g.HighY, g.X, g.LowY, color, 1)
		if g.Filled {
			c.FillRect(g.Body, color)
		} else {
			c.StrokeRect(g.Body, color, 1)
		}
		stats.Candles++
	}
	c.PopClip()

	return stats
}

// renderVolume draws one bar per point in the volume band and returns how many
// visible bars it drew.
func renderVolume(c Canvas, l Layout, candles []schema.CandlestickPoint, maxVolume int, pal Palette) int {
	drawn := 0
	for i, p := range candles {
		x := l.SlotCenter(i) - l.BarWidth/2
		if IsMalformed(p) {
			c.FillRect(Rect{X: x, Y: l.Volume.Bottom(), W: l.BarWidth}, pal.Balanced.WithAlpha(0))
			continue
		}
		h := float64(p.Volume) / float64(maxVolume) * l.Volume.H
		c.FillRect(Rect{X: x, Y: l.Volume.Bottom() - h, W: l.BarWidth, H: h}, pal.ForDominance(p.Dominance).WithAlpha(VolumeOpacity))
		drawn++
	}
	return drawn
}

// Geometry places candle i on the layout using the given scale.
func Geometry(l Layout, ys YScale, i int, p schema.CandlestickPoint) CandleGeometry {
	g := CandleGeometry{
		X:      l.SlotCenter(i),
		HighY:  ys.Y(p.High),
		LowY:   ys.Y(p.Low),
		Filled: p.Bullish,
	}

	top, bottom := ys.Y(p.Close), ys.Y(p.Open)
	if top > bottom {
		top, bottom = bottom, top
	}
	if bottom-top < MinBodyHeight {
		top = bottom - MinBodyHeight
	}
	g.Body = Rect{X: g.X - l.BarWidth/2, Y: top, W: l.BarWidth, H: bottom - top}

	if p.Bullish {
		g.CloseY, g.OpenY = top, bottom
	} else {
		g.OpenY, g.CloseY = top, bottom
	}
	return g
}

// IsMalformed reports whether a point carries a negative or non-finite value.
func IsMalformed(p schema.CandlestickPoint) bool {
	return p.Volume < 0 || !isValid(p.Low) || !isValid(p.Open) || !isValid(p.Close) || !isValid(p.High)
}
