// Package scene draws the dual-panel candlestick and volume chart onto a Canvas.
package scene

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Rect is an axis-aligned rectangle in screen space (y grows downward).
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Intersect returns the overlap of r and o. The result has zero size when
// they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := math.Max(r.X, o.X), math.Max(r.Y, o.Y)
	x1, y1 := math.Min(r.X+r.W, o.X+o.W), math.Min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Color is an sRGB color with 8-bit alpha, shared with the go-chart renderers.
type Color drawing.Color

// Hex returns the #rrggbb form of the color, ignoring opacity.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// WithAlpha returns a copy of c with the given opacity in [0, 1].
func (c Color) WithAlpha(a float64) Color {
	a = math.Max(0, math.Min(1, a))
	c.A = uint8(math.Round(a * 255))
	return c
}

// Opacity returns the alpha channel as a fraction.
func (c Color) Opacity() float64 {
	return float64(c.A) / 255
}

// Drawing converts to the renderer color type.
func (c Color) Drawing() drawing.Color {
	return drawing.Color(c)
}

// Canvas is the drawing surface the renderer targets.
type Canvas interface {
	FillRect(r Rect, c Color)
	StrokeRect(r Rect, c Color, lineWidth float64)
	Line(x1, y1, x2, y2 float64, c Color, lineWidth float64)
	Text(x, y float64, s string, c Color, size float64)
	PushClip(r Rect)
	PopClip()
}
