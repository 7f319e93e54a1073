package scene

import "math"

// Band proportions of the surface height.
const (
	CandleBandRatio = 0.70
	BandGapRatio    = 0.05
	VolumeBandRatio = 0.25
)

// Bar sizing.
const (
	MinBarWidth   = 2.0
	MaxBarWidth   = 12.0
	BarFillRatio  = 0.7
	MinBodyHeight = 2.0
)

// Layout is the geometry shared by the renderer and the cursor correlator.
// Both must use it so that slot i on screen is always series[i].
type Layout struct {
	Width     float64
	Height    float64
	Count     int
	Candle    Rect
	Volume    Rect
	SlotWidth float64
	BarWidth  float64
}

// NewLayout computes bands and bar sizing for n points on a w×h surface.
func NewLayout(w, h float64, n int) Layout {
	l := Layout{
		Width:  w,
		Height: h,
		Count:  n,
		Candle: Rect{X: 0, Y: 0, W: w, H: h * CandleBandRatio},
		Volume: Rect{X: 0, Y: h * (CandleBandRatio + BandGapRatio), W: w, H: h * VolumeBandRatio},
	}
	if n > 0 {
		l.SlotWidth = w / float64(n)
		l.BarWidth = BarWidth(w, n)
	}
	return l
}

// BarWidth returns clamp(2, 12, w/n*0.7).
func BarWidth(w float64, n int) float64 {
	if n <= 0 {
		return MinBarWidth
	}
	return math.Max(MinBarWidth, math.Min(MaxBarWidth, w/float64(n)*BarFillRatio))
}

// SlotCenter is the x coordinate of the center of slot i.
func (l Layout) SlotCenter(i int) float64 {
	return (float64(i) + 0.5) * l.SlotWidth
}

// IndexAt maps an x coordinate to its slot index, or -1 if it falls outside
// the surface or past the last slot.
func (l Layout) IndexAt(x float64) int {
	if l.Count == 0 || l.SlotWidth <= 0 || x < 0 || x >= l.Width {
		return -1
	}
	i := int(math.Floor(x / l.SlotWidth))
	if i >= l.Count {
		return -1
	}
	return i
}

// Contains reports whether the point lies on the surface.
func (l Layout) Contains(x, y float64) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}
