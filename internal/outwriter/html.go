package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/churnchart/internal/scene"
	"github.com/huangsam/churnchart/schema"
)

// htmlOptions configures the interactive HTML export.
type htmlOptions struct {
	Title    string
	Width    int
	Height   int
	Theme    schema.Theme
	LogScale bool
}

// echartsTheme maps a display theme to the echarts built-in theme name.
func echartsTheme(t schema.Theme) string {
	if t == schema.DarkTheme {
		return "dark"
	}
	return "white"
}

func (o htmlOptions) init(height int) opts.Initialization {
	pal := scene.PaletteFor(o.Theme)
	return opts.Initialization{
		PageTitle:       o.Title,
		Width:           strconv.Itoa(o.Width) + "px",
		Height:          strconv.Itoa(height) + "px",
		BackgroundColor: pal.Background.Hex(),
		Theme:           echartsTheme(o.Theme),
	}
}

func (o htmlOptions) axisStyle() (*opts.AxisLabel, *opts.AxisLine) {
	pal := scene.PaletteFor(o.Theme)
	return &opts.AxisLabel{Color: pal.Text.Hex()},
		&opts.AxisLine{LineStyle: &opts.LineStyle{Color: pal.Axis.Hex()}}
}

// emptyValue marks a day a series has no candle for.
const emptyValue = "-"

// dominanceOrder fixes the series order of the candle panel.
var dominanceOrder = []schema.Dominance{schema.AdditionsDominant, schema.DeletionsDominant, schema.Balanced}

var seriesNames = map[schema.Dominance]string{
	schema.AdditionsDominant: "Additions",
	schema.DeletionsDominant: "Deletions",
	schema.Balanced:          "Balanced",
}

// candleClass is one candlestick series holding the days of a single dominance class.
type candleClass struct {
	Name  string
	Style opts.ItemStyle
	Data  []opts.KlineData
}

// candleValue returns the echarts open, close, low, high tuple. A bearish day
// closes at the bottom. Log scale uses the symlog transform so zero lows stay finite.
func candleValue(c schema.CandlestickPoint, logScale bool) [4]float64 {
	start, end := c.Open, c.Close
	if !c.Bullish {
		start, end = end, start
	}
	v := [4]float64{start, end, c.Low, c.High}
	if logScale {
		for i := range v {
			v[i] = scene.Symlog(v[i])
		}
	}
	return v
}

// candleClasses splits the candles by dominance so each day is drawn in the
// same color as its volume bar. Bearish bodies are left hollow.
func candleClasses(candles []schema.CandlestickPoint, days []string, pal scene.Palette, logScale bool) []candleClass {
	classes := make([]candleClass, len(dominanceOrder))
	for k, d := range dominanceOrder {
		color := pal.ForDominance(d).Hex()
		data := make([]opts.KlineData, len(candles))
		for i, c := range candles {
			data[i] = opts.KlineData{Name: days[i], Value: emptyValue}
			if c.Dominance == d {
				data[i].Value = candleValue(c, logScale)
			}
		}
		classes[k] = candleClass{
			Name: seriesNames[d],
			Style: opts.ItemStyle{
				Color:        color,
				Color0:       "transparent",
				BorderColor:  color,
				BorderColor0: color,
			},
			Data: data,
		}
	}
	return classes
}

// newCandleChart builds the price-like panel: one candle per day.
func newCandleChart(candles []schema.CandlestickPoint, days []string, o htmlOptions) *charts.Kline {
	pal := scene.PaletteFor(o.Theme)
	label, line := o.axisStyle()
	yAxis := opts.YAxis{Name: "Lines", AxisLabel: label, AxisLine: line}
	if o.LogScale {
		yAxis.Name = "log10(1 + lines)"
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(o.init(o.Height*3/4)),
		charts.WithTitleOpts(opts.Title{
			Title:      o.Title,
			Left:       "center",
			TitleStyle: &opts.TextStyle{Color: pal.Text.Hex()},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Left: "right", TextStyle: &opts.TextStyle{Color: pal.Text.Hex()}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: 0, End: 100},
			opts.DataZoom{Type: "inside"},
		),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: label, AxisLine: line}),
		charts.WithYAxisOpts(yAxis),
	)

	kline.SetXAxis(days)
	for _, class := range candleClasses(candles, days, pal, o.LogScale) {
		kline.AddSeries(class.Name, class.Data, charts.WithItemStyleOpts(class.Style))
	}
	return kline
}

// volumeData colors each day's bar by its dominance class.
func volumeData(candles []schema.CandlestickPoint, days []string, pal scene.Palette) []opts.BarData {
	data := make([]opts.BarData, len(candles))
	for i, c := range candles {
		data[i] = opts.BarData{
			Name:      days[i],
			Value:     c.Volume,
			ItemStyle: &opts.ItemStyle{Color: pal.ForDominance(c.Dominance).Hex()},
		}
	}
	return data
}

// newVolumeChart builds the volume panel, colored by dominance.
func newVolumeChart(candles []schema.CandlestickPoint, days []string, o htmlOptions) *charts.Bar {
	pal := scene.PaletteFor(o.Theme)
	label, line := o.axisStyle()

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(o.init(o.Height/4)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: label, AxisLine: line}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Volume", AxisLabel: label, AxisLine: line}),
	)
	bar.SetXAxis(days).AddSeries("Volume", volumeData(candles, days, pal))
	return bar
}

// writeChartHTML renders the candles as an interactive echarts page.
func writeChartHTML(w io.Writer, candles []schema.CandlestickPoint, o htmlOptions) error {
	days := make([]string, len(candles))
	for i, c := range candles {
		days[i] = c.Date.Format(schema.DayLayout)
	}

	page := components.NewPage()
	page.PageTitle = o.Title
	page.AddCharts(newCandleChart(candles, days, o), newVolumeChart(candles, days, o))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering chart page: %w", err)
	}
	return nil
}
