package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/churnchart/internal/contract"
	"github.com/huangsam/churnchart/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteTrendResults dispatches period-over-period deltas to the configured output.
func WriteTrendResults(result schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendCSV(w, result, cfg.Precision)
		}, "Wrote CSV")
	case schema.TextOut:
		return writeTrendTable(stdout(), result, cfg, duration)
	default:
		return unsupportedOutput("trend", cfg.Output)
	}
}

func writeTrendCSV(w io.Writer, result schema.TrendResult, precision int) error {
	fmtFloat := createFormatter(precision)
	header := []string{"metric", "current", "previous", "percent_change", "current_start", "current_end", "previous_start", "previous_end"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, m := range result.Metrics {
			rec := []string{
				m.Name,
				fmtFloat(m.CurrentValue),
				fmtFloat(m.PreviousValue),
				fmtFloat(m.PercentChange),
				result.CurrentStart.Format(contract.DateTimeFormat),
				result.CurrentEnd.Format(contract.DateTimeFormat),
				result.PreviousStart.Format(contract.DateTimeFormat),
				result.PreviousEnd.Format(contract.DateTimeFormat),
			}
			if err := csvWriter.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

func writeTrendTable(w io.Writer, result schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)
	data := make([][]string, 0, len(result.Metrics))
	for _, m := range result.Metrics {
		data = append(data, []string{
			m.Name,
			fmtFloat(m.CurrentValue),
			fmtFloat(m.PreviousValue),
			contract.FormatPercentChange(m.PercentChange, cfg.Precision, cfg.UseColors),
		})
	}

	_, _ = fmt.Fprintf(w, "Current:  %s .. %s\nPrevious: %s .. %s\n",
		result.CurrentStart.Format(time.DateOnly), result.CurrentEnd.Format(time.DateOnly),
		result.PreviousStart.Format(time.DateOnly), result.PreviousEnd.Format(time.DateOnly))

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Current", "Previous", "Change"})
	table.Configure(func(config *tablewriter.Config) {
		config.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to add table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, _ = fmt.Fprintf(w, "Compared %d metrics. Generated in %v\n", len(result.Metrics), duration)
	return nil
}
