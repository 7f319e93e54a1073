package scene

import "math"

// Symlog is the symmetric log transform sign(v)*log10(1+|v|).
// It is defined at zero and for negative values.
func Symlog(v float64) float64 {
	if v < 0 {
		return -math.Log10(1 - v)
	}
	return math.Log10(1 + v)
}

// YScale maps values in [0, max] onto a band, bottom to top.
type YScale struct {
	band Rect
	max  float64
	log  bool
}

// NewYScale builds a linear or symlog scale for the band.
func NewYScale(band Rect, maxValue float64, logarithmic bool) YScale {
	s := YScale{band: band, log: logarithmic}
	if isValid(maxValue) {
		s.max = s.transform(maxValue)
	}
	return s
}

func (s YScale) transform(v float64) float64 {
	if s.log {
		return Symlog(v)
	}
	return v
}

// Y returns the screen y for v. Values outside [0, max] land outside the band.
func (s YScale) Y(v float64) float64 {
	if s.max <= 0 || !isValid(v) {
		return s.band.Bottom()
	}
	return s.band.Bottom() - s.transform(v)/s.max*s.band.H
}

// isValid reports whether v is a finite, non-negative magnitude.
func isValid(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
