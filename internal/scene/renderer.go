package scene

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
)

// RendererCanvas draws onto a go-chart Renderer. Clipping is geometric: shapes
// are cut to the active clip before they reach the renderer, so the output
// format never needs clip-path support.
type RendererCanvas struct {
	r             chart.Renderer
	font          *truetype.Font
	width, height float64
	clips         []Rect
}

var _ Canvas = &RendererCanvas{} // Compile-time check

// NewSVGCanvas returns a canvas that produces an SVG document.
func NewSVGCanvas(width, height float64) (*RendererCanvas, error) {
	return newRendererCanvas(chart.SVG, width, height)
}

// NewPNGCanvas returns a canvas that produces a PNG image.
func NewPNGCanvas(width, height float64) (*RendererCanvas, error) {
	return newRendererCanvas(chart.PNG, width, height)
}

func newRendererCanvas(provider chart.RendererProvider, width, height float64) (*RendererCanvas, error) {
	r, err := provider(int(math.Round(width)), int(math.Round(height)))
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("loading default font: %w", err)
	}
	return &RendererCanvas{r: r, font: font, width: width, height: height}, nil
}

// clip returns the active clip, or the whole canvas when none is pushed.
func (rc *RendererCanvas) clip() Rect {
	if len(rc.clips) == 0 {
		return Rect{W: rc.width, H: rc.height}
	}
	return rc.clips[len(rc.clips)-1]
}

// pixelSpan rounds [from, to) to whole pixels. A span with positive extent
// keeps at least one pixel.
func pixelSpan(from, to float64) (int, int) {
	a, b := int(math.Round(from)), int(math.Round(to))
	if b == a && to > from {
		b = a + 1
	}
	return a, b
}

func (rc *RendererCanvas) rectPath(r Rect) {
	x0, x1 := pixelSpan(r.X, r.X+r.W)
	y0, y1 := pixelSpan(r.Y, r.Y+r.H)
	rc.r.MoveTo(x0, y0)
	rc.r.LineTo(x1, y0)
	rc.r.LineTo(x1, y1)
	rc.r.LineTo(x0, y1)
	rc.r.Close()
}

// FillRect implements Canvas.
func (rc *RendererCanvas) FillRect(r Rect, c Color) {
	r = r.Intersect(rc.clip())
	if r.Empty() || c.A == 0 {
		return
	}
	rc.r.SetFillColor(c.Drawing())
	rc.rectPath(r)
	rc.r.Fill()
	rc.r.ResetStyle()
}

// StrokeRect implements Canvas.
func (rc *RendererCanvas) StrokeRect(r Rect, c Color, lineWidth float64) {
	r = r.Intersect(rc.clip())
	if r.Empty() || c.A == 0 {
		return
	}
	rc.r.SetStrokeColor(c.Drawing())
	rc.r.SetStrokeWidth(lineWidth)
	rc.rectPath(r)
	rc.r.Stroke()
	rc.r.ResetStyle()
}

// Line implements Canvas.
func (rc *RendererCanvas) Line(x1, y1, x2, y2 float64, c Color, lineWidth float64) {
	x1, y1, x2, y2, ok := clipLine(x1, y1, x2, y2, rc.clip())
	if !ok || c.A == 0 {
		return
	}
	rc.r.SetStrokeColor(c.Drawing())
	rc.r.SetStrokeWidth(lineWidth)
	rc.r.MoveTo(int(math.Round(x1)), int(math.Round(y1)))
	rc.r.LineTo(int(math.Round(x2)), int(math.Round(y2)))
	rc.r.Stroke()
	rc.r.ResetStyle()
}

// Text implements Canvas. Text is centered on (x, y) and dropped when its
// anchor falls outside the clip.
func (rc *RendererCanvas) Text(x, y float64, s string, c Color, size float64) {
	if s == "" || c.A == 0 || !rc.clip().Contains(x, y) {
		return
	}
	rc.r.SetFont(rc.font)
	rc.r.SetFontSize(size)
	rc.r.SetFontColor(c.Drawing())
	box := rc.r.MeasureText(s)
	rc.r.Text(s, int(math.Round(x))-box.Width()/2, int(math.Round(y))+box.Height()/2)
	rc.r.ResetStyle()
}

// PushClip implements Canvas. Nested clips intersect.
func (rc *RendererCanvas) PushClip(r Rect) {
	rc.clips = append(rc.clips, r.Intersect(rc.clip()))
}

// PopClip implements Canvas.
func (rc *RendererCanvas) PopClip() {
	if len(rc.clips) > 0 {
		rc.clips = rc.clips[:len(rc.clips)-1]
	}
}

// Save writes the finished document to w.
func (rc *RendererCanvas) Save(w io.Writer) error {
	return rc.r.Save(w)
}

// Bytes returns the finished document.
func (rc *RendererCanvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := rc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// clipLine cuts a segment to r with the Liang-Barsky algorithm. ok is false
// when no part of the segment is inside.
func clipLine(x1, y1, x2, y2 float64, r Rect) (float64, float64, float64, float64, bool) {
	dx, dy := x2-x1, y2-y1
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x1 - r.X},
		{dx, r.X + r.W - x1},
		{-dy, y1 - r.Y},
		{dy, r.Y + r.H - y1},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return x1 + t0*dx, y1 + t0*dy, x1 + t1*dx, y1 + t1*dy, true
}
