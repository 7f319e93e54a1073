package scene

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/huangsam/churnchart/core/agg"
	"github.com/huangsam/churnchart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var volumeAlpha = Color{}.WithAlpha(VolumeOpacity).A

func candlesFor(pairs ...[2]int) []schema.CandlestickPoint {
	series := make(schema.DenseSeries, len(pairs))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range pairs {
		series[i] = schema.DailyBucket{Date: start.AddDate(0, 0, i), Additions: p[0], Deletions: p[1]}
	}
	return agg.ProjectCandles(series)
}

func testOptions() Options {
	return Options{Width: 960, Height: 400, Palette: PaletteFor(schema.LightTheme)}
}

// splitPasses returns the ops issued before the candle clip and the ops inside it.
func splitPasses(t *testing.T, ops []Op) (before, inside []Op) {
	t.Helper()
	push := -1
	for i, op := range ops {
		if op.Kind == PushClipOp {
			push = i
			break
		}
	}
	require.GreaterOrEqual(t, push, 0, "candle pass must be clipped")
	for _, op := range ops[push+1:] {
		if op.Kind == PopClipOp {
			break
		}
		inside = append(inside, op)
	}
	return ops[:push], inside
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, 12.0, BarWidth(960, 10))
	assert.Equal(t, 2.0, BarWidth(100, 100))
	assert.InDelta(t, 7.0, BarWidth(100, 10), 1e-9)
	assert.Equal(t, 2.0, BarWidth(100, 0))
}

func TestNewLayout(t *testing.T) {
	l := NewLayout(960, 400, 30)

	assert.InDelta(t, 280.0, l.Candle.H, 1e-9)
	assert.InDelta(t, 300.0, l.Volume.Y, 1e-9)
	assert.InDelta(t, 100.0, l.Volume.H, 1e-9)
	assert.InDelta(t, 400.0, l.Volume.Bottom(), 1e-9)
	assert.InDelta(t, 32.0, l.SlotWidth, 1e-9)

	for i := range 30 {
		assert.Equal(t, i, l.IndexAt(l.SlotCenter(i)), "slot center must map back to its index")
	}
	assert.Equal(t, -1, l.IndexAt(-1))
	assert.Equal(t, -1, l.IndexAt(960))
}

func TestSymlog(t *testing.T) {
	assert.Equal(t, 0.0, Symlog(0))
	assert.InDelta(t, 1.0, Symlog(9), 1e-12)
	assert.InDelta(t, -1.0, Symlog(-9), 1e-12)
	assert.InDelta(t, 3.0, Symlog(999), 1e-12)
}

func TestYScale(t *testing.T) {
	band := Rect{W: 100, H: 100}

	linear := NewYScale(band, 1000, false)
	logarithmic := NewYScale(band, 1000, true)

	assert.InDelta(t, 100.0, linear.Y(0), 1e-9)
	assert.InDelta(t, 0.0, linear.Y(1000), 1e-9)
	assert.InDelta(t, 99.0, linear.Y(10), 1e-9)
	assert.Less(t, logarithmic.Y(10), linear.Y(10), "log scale lifts small values")

	flat := NewYScale(band, 0, false)
	assert.Equal(t, 100.0, flat.Y(5))
	assert.Equal(t, 100.0, linear.Y(math.NaN()))
}

func TestRender_Idempotent(t *testing.T) {
	candles := candlesFor([2]int{100, 10}, [2]int{0, 0}, [2]int{5, 50}, [2]int{7, 7})
	opts := testOptions()

	first, second := NewRecorder(), NewRecorder()
	Render(first, candles, opts)
	Render(second, candles, opts)
	assert.Equal(t, first.Ops, second.Ops)

	svgA, err := NewSVGCanvas(opts.Width, opts.Height)
	require.NoError(t, err)
	svgB, err := NewSVGCanvas(opts.Width, opts.Height)
	require.NoError(t, err)
	Render(svgA, candles, opts)
	Render(svgB, candles, opts)
	a, err := svgA.Bytes()
	require.NoError(t, err)
	b, err := svgB.Bytes()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRender_EmptyState(t *testing.T) {
	tests := []struct {
		name    string
		candles []schema.CandlestickPoint
		message string
		want    string
	}{
		{"no points", nil, "", DefaultEmptyMessage},
		{"single point", candlesFor([2]int{3, 1}), "", DefaultEmptyMessage},
		{"custom message", nil, "No activity yet", "No activity yet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.EmptyMessage = tt.message
			rec := NewRecorder()

			stats := Render(rec, tt.candles, opts)

			assert.True(t, stats.Empty)
			assert.Equal(t, 1, rec.Count(TextOp))
			assert.Equal(t, 1, rec.Count(FillRectOp), "only the background")
			assert.Zero(t, rec.Count(StrokeRectOp))
			assert.Zero(t, rec.Count(PushClipOp))
			assert.Equal(t, tt.want, rec.Ops[len(rec.Ops)-1].Text)
		})
	}
}

func TestRender_PassOrderAndClip(t *testing.T) {
	candles := candlesFor([2]int{100, 10}, [2]int{10, 100}, [2]int{50, 50})
	opts := testOptions()
	rec := NewRecorder()

	stats := Render(rec, candles, opts)

	assert.Equal(t, 3, stats.VolumeBars)
	assert.Equal(t, 3, stats.Candles)

	before, inside := splitPasses(t, rec.Ops)
	volume := 0
	for _, op := range before {
		if op.Kind == FillRectOp && op.Color.A == volumeAlpha {
			volume++
		}
	}
	assert.Equal(t, 3, volume, "volume pass runs before the candle pass")

	l := NewLayout(opts.Width, opts.Height, len(candles))
	for _, op := range inside {
		require.NotNil(t, op.Clip)
		assert.Equal(t, l.Candle, *op.Clip)
	}
	assert.Equal(t, 3, countKind(inside, LineOp), "one wick per candle")
}

func TestRender_ColorsMatchAcrossPasses(t *testing.T) {
	candles := candlesFor([2]int{100, 10}, [2]int{10, 100}, [2]int{50, 50})
	opts := testOptions()
	rec := NewRecorder()
	Render(rec, candles, opts)

	before, inside := splitPasses(t, rec.Ops)
	var volumeColors, wickColors []Color
	for _, op := range before {
		if op.Kind == FillRectOp && op.Color.A == volumeAlpha {
			volumeColors = append(volumeColors, op.Color.WithAlpha(1))
		}
	}
	for _, op := range inside {
		if op.Kind == LineOp {
			wickColors = append(wickColors, op.Color)
		}
	}
	require.Len(t, volumeColors, 3)
	assert.Equal(t, volumeColors, wickColors)
	assert.Equal(t, opts.Palette.Additions, wickColors[0])
	assert.Equal(t, opts.Palette.Deletions, wickColors[1])
	assert.Equal(t, opts.Palette.Balanced, wickColors[2])
}

func TestRender_FilledAndHollowBodies(t *testing.T) {
	candles := candlesFor([2]int{100, 10}, [2]int{10, 100}, [2]int{40, 40})
	rec := NewRecorder()
	Render(rec, candles, testOptions())

	_, inside := splitPasses(t, rec.Ops)
	assert.Equal(t, 2, countKind(inside, FillRectOp), "additions >= deletions are filled")
	assert.Equal(t, 1, countKind(inside, StrokeRectOp))
}

func TestRender_ZeroMaxVolumeSkipsVolumePass(t *testing.T) {
	candles := candlesFor([2]int{0, 0}, [2]int{0, 0}, [2]int{0, 0})
	rec := NewRecorder()

	stats := Render(rec, candles, testOptions())

	assert.False(t, stats.Empty)
	assert.Zero(t, stats.VolumeBars)
	before, _ := splitPasses(t, rec.Ops)
	assert.Equal(t, 1, countKind(before, FillRectOp), "only the background")
}

func TestRender_MalformedPoints(t *testing.T) {
	candles := candlesFor([2]int{10, 1}, [2]int{3, 4}, [2]int{8, 8})
	candles[1].High = math.Inf(1)
	candles[2].Volume = -5

	rec := NewRecorder()
	var stats Stats
	assert.NotPanics(t, func() { stats = Render(rec, candles, testOptions()) })

	assert.Equal(t, 2, stats.Malformed)
	assert.Equal(t, 1, stats.Candles)
	invisible := 0
	for _, op := range rec.Ops {
		if op.Kind == FillRectOp && op.Color.A == 0 {
			assert.Zero(t, op.Rect.H)
			invisible++
		}
	}
	assert.Equal(t, 4, invisible, "one invisible bar per malformed point in each pass")
}

func TestGeometry_Orientation(t *testing.T) {
	candles := candlesFor([2]int{100, 10}, [2]int{10, 100}, [2]int{0, 0}, [2]int{25, 25}, [2]int{0, 3}, [2]int{1000, 999})
	l := NewLayout(960, 400, len(candles))
	ys := NewYScale(l.Candle, 1100, false)

	for i, c := range candles {
		g := Geometry(l, ys, i, c)
		assert.GreaterOrEqual(t, g.Body.H, MinBodyHeight)
		if c.Bullish {
			assert.Less(t, g.CloseY, g.OpenY, "candle %d: bullish close sits above open", i)
			assert.True(t, g.Filled)
		} else {
			assert.Greater(t, g.CloseY, g.OpenY, "candle %d: bearish close sits below open", i)
			assert.False(t, g.Filled)
		}
		assert.LessOrEqual(t, g.HighY, g.LowY)
	}
}

func TestSVGCanvas(t *testing.T) {
	candles := candlesFor([2]int{4, 1}, [2]int{1, 4})
	svg, err := NewSVGCanvas(320, 200)
	require.NoError(t, err)
	Render(svg, candles, Options{Width: 320, Height: 200, Palette: PaletteFor(schema.DarkTheme)})

	data, err := svg.Bytes()
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, darkPalette.Background.Drawing().String())
	assert.Contains(t, out, darkPalette.Additions.Drawing().String())
	assert.NotContains(t, out, "clipPath")
	assert.Contains(t, out, "</svg>")

	empty, err := NewSVGCanvas(320, 200)
	require.NoError(t, err)
	Render(empty, nil, Options{Width: 320, Height: 200, EmptyMessage: "quiet week", Palette: PaletteFor(schema.LightTheme)})
	data, err = empty.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(data), "quiet week")
}

func TestPNGCanvas(t *testing.T) {
	png, err := NewPNGCanvas(320, 200)
	require.NoError(t, err)
	Render(png, candlesFor([2]int{4, 1}, [2]int{1, 4}), Options{Width: 320, Height: 200, Palette: PaletteFor(schema.LightTheme)})

	data, err := png.Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRendererCanvas_ClipsGeometrically(t *testing.T) {
	inside := Color{R: 0x11, G: 0x22, B: 0x33, A: 0xff}
	outside := Color{R: 0x44, G: 0x55, B: 0x66, A: 0xff}
	hidden := Color{R: 0x77, G: 0x88, B: 0x99, A: 0xff}

	svg, err := NewSVGCanvas(100, 100)
	require.NoError(t, err)
	svg.PushClip(Rect{X: 10, Y: 10, W: 40, H: 40})
	svg.FillRect(Rect{X: 30, Y: 30, W: 50, H: 50}, inside)
	svg.FillRect(Rect{X: 60, Y: 60, W: 10, H: 10}, outside)
	svg.Line(0, 90, 90, 90, outside, 1)
	svg.Text(80, 80, "gone", outside, 10)
	svg.FillRect(Rect{X: 20, Y: 20, W: 5, H: 5}, hidden.WithAlpha(0))
	svg.PopClip()

	data, err := svg.Bytes()
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, inside.Drawing().String())
	assert.NotContains(t, out, outside.Drawing().String())
	assert.NotContains(t, out, "gone")
	assert.NotContains(t, out, hidden.WithAlpha(0).Drawing().String())
}

func TestClipLine(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}

	x1, y1, x2, y2, ok := clipLine(-5, 5, 15, 5, r)
	require.True(t, ok)
	assert.Equal(t, [4]float64{0, 5, 10, 5}, [4]float64{x1, y1, x2, y2})

	x1, y1, x2, y2, ok = clipLine(5, -10, 5, 20, r)
	require.True(t, ok)
	assert.Equal(t, [4]float64{5, 0, 5, 10}, [4]float64{x1, y1, x2, y2})

	_, _, _, _, ok = clipLine(20, 0, 30, 10, r)
	assert.False(t, ok)

	x1, y1, x2, y2, ok = clipLine(2, 2, 4, 4, r)
	require.True(t, ok)
	assert.Equal(t, [4]float64{2, 2, 4, 4}, [4]float64{x1, y1, x2, y2})
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	assert.Equal(t, Rect{X: 5, Y: 5, W: 5, H: 5}, a.Intersect(Rect{X: 5, Y: 5, W: 10, H: 10}))
	assert.True(t, a.Intersect(Rect{X: 20, Y: 20, W: 5, H: 5}).Empty())
	assert.Equal(t, a, a.Intersect(a))
}

func TestColorAlpha(t *testing.T) {
	c := lightPalette.Additions
	assert.Equal(t, uint8(0xff), c.A)
	assert.Equal(t, uint8(115), c.WithAlpha(VolumeOpacity).A)
	assert.Equal(t, uint8(0), c.WithAlpha(-1).A)
	assert.Equal(t, c, c.WithAlpha(0.2).WithAlpha(1))
	assert.InDelta(t, 1.0, c.Opacity(), 1e-9)
	assert.Equal(t, "#1a7f37", c.WithAlpha(0).Hex())
}

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, lightPalette, PaletteFor(schema.LightTheme))
	assert.Equal(t, darkPalette, PaletteFor(schema.DarkTheme))
	assert.Equal(t, lightPalette, PaletteFor("sepia"))
	assert.NotEqual(t, lightPalette.Additions, darkPalette.Additions)
}

func countKind(ops []Op, kind OpKind) int {
	n := 0
	for _, op := range ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
