package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/churnchart/internal/contract"
	"github.com/huangsam/churnchart/internal/parquet"
	"github.com/huangsam/churnchart/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// bucketRow is the JSON shape of one daily bucket.
type bucketRow struct {
	Date         string  `json:"date"`
	Additions    int     `json:"additions"`
	Deletions    int     `json:"deletions"`
	Volume       int     `json:"volume"`
	Commits      int     `json:"commits"`
	FilesChanged int     `json:"files_changed"`
	Ratio        float64 `json:"ratio"`
	Dominance    string  `json:"dominance"`
}

// bucketsOutput is the JSON document written for the buckets command.
type bucketsOutput struct {
	Dense   bool                   `json:"dense"`
	Report  schema.NormalizeReport `json:"report"`
	Buckets []bucketRow            `json:"buckets"`
}

// WriteBucketsResults dispatches daily buckets to the configured output.
func WriteBucketsResults(result schema.BucketsResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBucketsJSON(w, result, cfg.Precision)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBucketsCSV(w, result.Buckets, cfg.Precision)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		if err := parquet.WriteDataPointsParquet(parquet.ConvertDataPoints(schema.ToDataPoints(result.Buckets)), cfg.OutputFile); err != nil {
			return err
		}
		fmt.Printf("💾 Wrote Parquet to %s\n", cfg.OutputFile)
		return nil
	case schema.TextOut:
		return writeBucketsTable(stdout(), result, cfg, duration)
	default:
		return unsupportedOutput("buckets", cfg.Output)
	}
}

func bucketRows(buckets []schema.DailyBucket) []bucketRow {
	rows := make([]bucketRow, len(buckets))
	for i, b := range buckets {
		ratio := schema.DominanceRatio(b.Additions, b.Deletions)
		rows[i] = bucketRow{
			Date:         b.Day(),
			Additions:    b.Additions,
			Deletions:    b.Deletions,
			Volume:       b.Volume(),
			Commits:      b.Commits,
			FilesChanged: b.FilesChanged,
			Ratio:        ratio,
			Dominance:    contract.GetPlainLabel(schema.ClassifyRatio(ratio)),
		}
	}
	return rows
}

func writeBucketsJSON(w io.Writer, result schema.BucketsResult, precision int) error {
	rows := bucketRows(result.Buckets)
	for i := range rows {
		rows[i].Ratio = roundTo(rows[i].Ratio, precision+2)
	}
	return writeJSON(w, bucketsOutput{Dense: result.Dense, Report: result.Report, Buckets: rows})
}

func writeBucketsCSV(w io.Writer, buckets []schema.DailyBucket, precision int) error {
	header := []string{"date", "additions", "deletions", "volume", "commits", "files_changed", "ratio", "dominance"}
	fmtFloat := createFormatter(precision + 2)
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range bucketRows(buckets) {
			rec := []string{
				r.Date,
				strconv.Itoa(r.Additions),
				strconv.Itoa(r.Deletions),
				strconv.Itoa(r.Volume),
				strconv.Itoa(r.Commits),
				strconv.Itoa(r.FilesChanged),
				fmtFloat(r.Ratio),
				r.Dominance,
			}
			if err := csvWriter.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

func writeBucketsTable(w io.Writer, result schema.BucketsResult, cfg *contract.Config, duration time.Duration) error {
	wide := useWideTable(terminalWidth())
	headers := []string{"Date", "Additions", "Deletions", "Volume"}
	if wide {
		headers = append(headers, "Commits", "Files")
	}
	headers = append(headers, "Ratio", "Dominance")

	fmtFloat := createFormatter(cfg.Precision + 2)
	data := make([][]string, 0, len(result.Buckets))
	for _, b := range result.Buckets {
		ratio := schema.DominanceRatio(b.Additions, b.Deletions)
		row := []string{b.Day(), formatCount(b.Additions), formatCount(b.Deletions), formatCount(b.Volume())}
		if wide {
			row = append(row, formatCount(b.Commits), formatCount(b.FilesChanged))
		}
		row = append(row, fmtFloat(ratio), dominanceLabel(schema.ClassifyRatio(ratio), cfg.UseColors))
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

	_, _ = fmt.Fprintf(w, "Showing %d days (%s). Skipped %d records. Generated in %v\n",
		len(result.Buckets), seriesKind(result.Dense), result.Report.Skipped(), duration)
	return nil
}

func seriesKind(dense bool) string {
	if dense {
		return "gap-filled"
	}
	return "active days only"
}
