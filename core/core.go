// Package core has the pipeline orchestration for normalizing, aggregating,
// charting and comparing contribution activity.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/huangsam/churnchart/internal/chart"
	"github.com/huangsam/churnchart/internal/contract"
	"github.com/huangsam/churnchart/internal/observability"
	"github.com/huangsam/churnchart/internal/outwriter"
	"github.com/huangsam/churnchart/internal/scene"
	"github.com/huangsam/churnchart/internal/theme"
	"github.com/huangsam/churnchart/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// GetBucketsResults loads activity and returns the windowed daily buckets.
func GetBucketsResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.BucketsResult, time.Duration, error) {
	start := time.Now()
	act, err := loadActivity(ctx, cfg, mgr)
	if err != nil {
		return schema.BucketsResult{}, 0, err
	}
	series := buildPipeline(ctx, act, cfg.Window, cfg.EndTime)
	result := schema.BucketsResult{
		Dense:   cfg.Window != schema.WindowAll,
		Report:  act.report,
		Buckets: series,
	}
	return result, time.Since(start), nil
}

// ExecuteBuckets prints daily buckets for the configured window.
// It serves as the main entry point for the 'buckets' command.
func ExecuteBuckets(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	logHeader(ctx, cfg, "buckets")
	result, duration, err := GetBucketsResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteBucketsResults(result, cfg, duration)
}

// GetChartResults loads activity and runs every pass up to candle projection.
func GetChartResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ChartResult, time.Duration, error) {
	start := time.Now()
	act, err := loadActivity(ctx, cfg, mgr)
	if err != nil {
		return schema.ChartResult{}, 0, err
	}
	series := buildPipeline(ctx, act, cfg.Window, cfg.EndTime)
	result := timedPass(ctx, observability.PassProject, func() schema.ChartResult {
		return BuildChartResult(series, act.report)
	})
	return result, time.Since(start), nil
}

// NewChartView builds a view for the configured surface, bound to notifier.
// A nil notifier uses theme.Default.
func NewChartView(cfg *contract.Config, notifier *theme.Notifier) *chart.View {
	return chart.NewView(chart.Options{
		Width:            cfg.Chart.Width,
		Height:           cfg.Chart.Height,
		IsExpanded:       cfg.Chart.Expanded,
		Viewport:         cfg.Chart.Viewport,
		LogarithmicScale: cfg.Chart.LogScale,
		IncludeBots:      cfg.IncludeBots,
		EmptyMessage:     cfg.Chart.EmptyMessage,
	}, notifier)
}

// ExecuteChart renders the chart for the configured window.
// It serves as the main entry point for the 'chart' command.
func ExecuteChart(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	logHeader(ctx, cfg, "chart")
	result, duration, err := GetChartResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	view := NewChartView(cfg, nil)
	view.Mount()
	defer view.Unmount()
	view.SetSeries(result.Series)

	stats := timedPass(ctx, observability.PassRender, func() scene.Stats {
		return view.Render(scene.NewRecorder())
	})
	metricsFrom(ctx).RecordDraw(stats.Candles, stats.VolumeBars, stats.Malformed)
	if stats.Empty {
		slog.Info("not enough activity to chart", "points", result.Summary.PointCount)
	}

	return outwriter.WriteChartResults(result, view, cfg, duration)
}

// GetTrendResults compares the period ending at cfg.EndTime with the one before it.
// A bare-date end includes that whole day in the current period.
func GetTrendResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.TrendResult, time.Duration, error) {
	start := time.Now()
	extractors, err := ExtractorsByName(cfg.TrendMetrics)
	if err != nil {
		return schema.TrendResult{}, 0, err
	}
	act, err := loadActivity(ctx, cfg, mgr)
	if err != nil {
		return schema.TrendResult{}, 0, err
	}
	cutoff := TrendCutoff(cfg.EndTime)
	current, previous := SplitWindows(act.events, cutoff, cfg.TrendPeriod)
	if len(current) == 0 && len(previous) == 0 {
		return schema.TrendResult{}, 0, contract.ErrNoData
	}
	result := timedPass(ctx, observability.PassTrend, func() schema.TrendResult {
		return BuildTrendResult(act.events, cutoff, cfg.TrendPeriod, extractors)
	})
	return result, time.Since(start), nil
}

// ExecuteTrend prints period-over-period deltas.
// It serves as the main entry point for the 'trend' command.
func ExecuteTrend(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	logHeader(ctx, cfg, "trend")
	result, duration, err := GetTrendResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteTrendResults(result, cfg, duration)
}

// ExecuteEventsImport normalizes the input file and upserts its events into the store.
func ExecuteEventsImport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.InputPath == "" {
		return contract.ErrNoInput
	}
	store := storeFrom(mgr)
	if store == nil {
		return fmt.Errorf("event store is not initialized")
	}

	fileCfg := cfg.Clone()
	fileCfg.Source = schema.FileSource
	act, err := loadActivity(ctx, fileCfg, mgr)
	if err != nil {
		return err
	}
	if len(act.events) == 0 {
		return fmt.Errorf("no events to import from %s", cfg.InputPath)
	}

	done := metricsFrom(ctx).StartPass(observability.PassImport)
	saved, err := store.SaveEvents(ctx, act.events)
	done()
	if err != nil {
		return fmt.Errorf("failed to import events: %w", err)
	}
	metricsFrom(ctx).RecordImported(saved)

	fmt.Printf("Imported %d events (%d skipped) into %s backend\n", saved, act.report.Skipped(), cfg.EventBackend)
	return nil
}

// logHeader prints a one-line description of the run to stderr.
func logHeader(ctx context.Context, cfg *contract.Config, command string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	from := cfg.InputPath
	if cfg.Source == schema.DBSource {
		from = string(cfg.EventBackend) + " events"
	}
	_, _ = fmt.Fprintf(os.Stderr, "🔎 %s: window %s ending %s from %s\n",
		command, cfg.Window, cfg.EndTime.Format(schema.DayLayout), from)
}
