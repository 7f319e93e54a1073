package chart

import (
	"fmt"
	"sync"

	"github.com/huangsam/churnchart/core/agg"
	"github.com/huangsam/churnchart/internal/interact"
	"github.com/huangsam/churnchart/internal/scene"
	"github.com/huangsam/churnchart/internal/theme"
	"github.com/huangsam/churnchart/schema"
)

// View is one mounted chart.
type View struct {
	mu          sync.Mutex
	opts        Options
	width       int
	height      int
	notifier    *theme.Notifier
	unsubscribe func()
	theme       schema.Theme
	series      schema.DenseSeries
	candles     []schema.CandlestickPoint
	logScale    *interact.Toggle
	includeBots *interact.Toggle
	onRender    func()
	onReload    func(includeBots bool)
}

// NewView builds a view bound to a theme notifier. A nil notifier uses theme.Default.
func NewView(opts Options, notifier *theme.Notifier) *View {
	if notifier == nil {
		notifier = theme.Default
	}
	v := &View{
		opts:     opts,
		width:    ResolveWidth(opts.Width, opts.Viewport),
		height:   ResolveHeight(opts.Height, opts.IsExpanded, opts.Viewport),
		notifier: notifier,
		theme:    notifier.Current(),
		series:   schema.DenseSeries{},
		candles:  []schema.CandlestickPoint{},
	}
	v.logScale = interact.NewToggle(LogScaleToggle, opts.LogarithmicScale, opts.DebounceDelay, v.toggled)
	v.includeBots = interact.NewToggle(IncludeBotsToggle, opts.IncludeBots, opts.DebounceDelay, v.toggled)
	return v
}

// OnRender registers the callback invoked whenever the view needs repainting.
func (v *View) OnRender(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onRender = fn
}

// OnReload registers the callback that re-runs the data pipeline when the
// bot-inclusion toggle changes.
func (v *View) OnReload(fn func(includeBots bool)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onReload = fn
}

// Mount subscribes to theme changes. Mounting twice is a no-op.
func (v *View) Mount() {
	v.mu.Lock()
	if v.unsubscribe != nil {
		v.mu.Unlock()
		return
	}
	v.theme = v.notifier.Current()
	v.mu.Unlock()

	unsub := v.notifier.Subscribe(v.themeChanged)

	v.mu.Lock()
	v.unsubscribe = unsub
	v.mu.Unlock()
}

// Unmount unsubscribes from theme changes and drops pending toggles.
func (v *View) Unmount() {
	v.mu.Lock()
	unsub := v.unsubscribe
	v.unsubscribe = nil
	v.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	v.logScale.Cancel()
	v.includeBots.Cancel()
}

// Mounted reports whether the view is subscribed to theme changes.
func (v *View) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.unsubscribe != nil
}

// SetSeries replaces the series and re-projects the candles.
func (v *View) SetSeries(series schema.DenseSeries) {
	candles := agg.ProjectCandles(series)
	if series == nil {
		series = schema.DenseSeries{}
	}
	v.mu.Lock()
	v.series = series
	v.candles = candles
	v.mu.Unlock()
	v.invalidate()
}

// Candles returns the projected candles. The slice must not be modified.
func (v *View) Candles() []schema.CandlestickPoint {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.candles
}

// Render draws the current state onto c.
func (v *View) Render(c scene.Canvas) scene.Stats {
	v.mu.Lock()
	candles := v.candles
	opts := v.sceneOptionsLocked()
	v.mu.Unlock()
	return scene.Render(c, candles, opts)
}

// RenderSVG renders the current state as an SVG document.
func (v *View) RenderSVG() ([]byte, scene.Stats, error) {
	return v.renderDocument(scene.NewSVGCanvas)
}

// RenderPNG renders the current state as a PNG image.
func (v *View) RenderPNG() ([]byte, scene.Stats, error) {
	return v.renderDocument(scene.NewPNGCanvas)
}

func (v *View) renderDocument(newCanvas func(width, height float64) (*scene.RendererCanvas, error)) ([]byte, scene.Stats, error) {
	w, h := v.Size()
	canvas, err := newCanvas(float64(w), float64(h))
	if err != nil {
		return nil, scene.Stats{}, err
	}
	stats := v.Render(canvas)
	data, err := canvas.Bytes()
	if err != nil {
		return nil, stats, fmt.Errorf("encoding chart: %w", err)
	}
	return data, stats, nil
}

func (v *View) sceneOptionsLocked() scene.Options {
	return scene.Options{
		Width:            float64(v.width),
		Height:           float64(v.height),
		LogarithmicScale: v.logScale.Value(),
		EmptyMessage:     v.opts.EmptyMessage,
		Palette:          scene.PaletteFor(v.theme),
	}
}

// BucketAt returns the tooltip under the cursor, or nil.
func (v *View) BucketAt(x, y float64) *interact.Tooltip {
	v.mu.Lock()
	c := interact.NewCorrelator(float64(v.width), float64(v.height), v.series, v.candles)
	v.mu.Unlock()
	return c.BucketAt(x, y)
}

// Summary returns the point count and the largest volume of the series.
func (v *View) Summary() schema.SeriesSummary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return agg.Summarize(v.series)
}

// Size returns the resolved surface size.
func (v *View) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// Theme returns the theme the view currently renders with.
func (v *View) Theme() schema.Theme {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.theme
}

// SetLogScale requests a vertical scale change; it is applied after the debounce delay.
func (v *View) SetLogScale(on bool) {
	v.logScale.Set(on)
}

// SetIncludeBots requests a bot-inclusion change; it is applied after the debounce delay.
func (v *View) SetIncludeBots(on bool) {
	v.includeBots.Set(on)
}

// LogScale returns the applied vertical scale mode.
func (v *View) LogScale() bool {
	return v.logScale.Value()
}

// IncludeBots returns the applied bot-inclusion mode.
func (v *View) IncludeBots() bool {
	return v.includeBots.Value()
}

// FlushToggles applies pending toggle changes immediately.
func (v *View) FlushToggles() {
	v.logScale.Flush()
	v.includeBots.Flush()
}

func (v *View) themeChanged(t schema.Theme) {
	v.mu.Lock()
	v.theme = t
	v.mu.Unlock()
	v.invalidate()
}

func (v *View) toggled(name string, value bool) {
	if name == IncludeBotsToggle {
		v.mu.Lock()
		reload := v.onReload
		v.mu.Unlock()
		if reload != nil {
			reload(value)
		}
	}
	v.invalidate()
}

func (v *View) invalidate() {
	v.mu.Lock()
	fn := v.onRender
	v.mu.Unlock()
	if fn != nil {
		fn()
	}
}
