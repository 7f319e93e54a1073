package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/churnchart/internal/chart"
	"github.com/huangsam/churnchart/internal/contract"
	"github.com/huangsam/churnchart/internal/parquet"
	"github.com/huangsam/churnchart/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteChartResults dispatches a projected chart to the configured output.
// The view supplies surface size and theme for the rendered formats.
func WriteChartResults(result schema.ChartResult, view *chart.View, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.SVGOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			svg, _, err := view.RenderSVG()
			if err != nil {
				return err
			}
			_, err = w.Write(svg)
			return err
		}, "Wrote SVG")
	case schema.PNGOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("png output requires --output-file")
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			png, _, err := view.RenderPNG()
			if err != nil {
				return err
			}
			_, err = w.Write(png)
			return err
		}, "Wrote PNG")
	case schema.HTMLOut:
		width, height := view.Size()
		o := htmlOptions{
			Title:    "Code churn",
			Width:    width,
			Height:   height,
			Theme:    view.Theme(),
			LogScale: view.LogScale(),
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChartHTML(w, result.Candles, o)
		}, "Wrote HTML")
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCandlesCSV(w, result.Candles, cfg.Precision)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		if err := parquet.WriteCandlesParquet(parquet.ConvertCandles(result.Candles), cfg.OutputFile); err != nil {
			return err
		}
		fmt.Printf("💾 Wrote Parquet to %s\n", cfg.OutputFile)
		return nil
	case schema.TextOut:
		return writeCandlesTable(stdout(), result, cfg, duration)
	default:
		return unsupportedOutput("chart", cfg.Output)
	}
}

func writeCandlesCSV(w io.Writer, candles []schema.CandlestickPoint, precision int) error {
	fmtFloat := createFormatter(precision)
	header := []string{"index", "date", "open", "close", "low", "high", "volume", "ratio", "dominance", "bullish"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, c := range candles {
			rec := []string{
				strconv.Itoa(c.Index),
				c.Date.Format(schema.DayLayout),
				fmtFloat(c.Open),
				fmtFloat(c.Close),
				fmtFloat(c.Low),
				fmtFloat(c.High),
				strconv.Itoa(c.Volume),
				strconv.FormatFloat(c.Ratio, 'f', precision+2, 64),
				contract.GetPlainLabel(c.Dominance),
				strconv.FormatBool(c.Bullish),
			}
			if err := csvWriter.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

func writeCandlesTable(w io.Writer, result schema.ChartResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)
	wide := useWideTable(terminalWidth())

	headers := []string{"Date", "Open", "Close"}
	if wide {
		headers = append(headers, "Low", "High")
	}
	headers = append(headers, "Volume", "Dominance")

	data := make([][]string, 0, len(result.Candles))
	for _, c := range result.Candles {
		row := []string{c.Date.Format(schema.DayLayout), fmtFloat(c.Open), fmtFloat(c.Close)}
		if wide {
			row = append(row, fmtFloat(c.Low), fmtFloat(c.High))
		}
		row = append(row, formatCount(c.Volume), dominanceLabel(c.Dominance, cfg.UseColors))
		data = append(data, row)
	}

	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(config *tablewriter.Config) {
		config.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to add table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, _ = fmt.Fprintf(w, "Showing %d days, peak volume %s lines. Generated in %v\n",
		result.Summary.PointCount, humanize.Comma(int64(result.Summary.MaxVolume)), duration)
	return nil
}
