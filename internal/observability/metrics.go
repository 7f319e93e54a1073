// Package observability holds the Prometheus counters for pipeline passes and
// draw calls, and exports them as a node-exporter textfile.
package observability

import (
	"fmt"

	"github.com/huangsam/churnchart/schema"
	"github.com/prometheus/client_golang/prometheus"
)

// Pass names used as label values.
const (
	PassNormalize = "normalize"
	PassAggregate = "aggregate"
	PassFillGaps  = "fill_gaps"
	PassProject   = "project"
	PassRender    = "render"
	PassTrend     = "trend"
	PassImport    = "import"
)

// Metrics is a set of collectors bound to a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	passesTotal    *prometheus.CounterVec
	passDuration   *prometheus.HistogramVec
	skippedRecords *prometheus.CounterVec
	drawCalls      *prometheus.CounterVec
	eventsImported prometheus.Counter
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		passesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "churnchart",
			Name:      "passes_total",
			Help:      "Total pipeline passes executed by pass.",
		}, []string{"pass"}),
		passDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "churnchart",
			Name:      "pass_duration_seconds",
			Help:      "Histogram of pipeline pass durations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"pass"}),
		skippedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "churnchart",
			Name:      "skipped_records_total",
			Help:      "Records dropped during normalization by reason.",
		}, []string{"reason"}),
		drawCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "churnchart",
			Name:      "draw_calls_total",
			Help:      "Shapes emitted by the scene renderer by kind.",
		}, []string{"kind"}),
		eventsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "churnchart",
			Name:      "events_imported_total",
			Help:      "Events written to the event store.",
		}),
	}

	m.registry.MustRegister(
		m.passesTotal,
		m.passDuration,
		m.skippedRecords,
		m.drawCalls,
		m.eventsImported,
	)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// StartPass counts a pass and returns a func that records its duration.
//
//	defer m.StartPass(observability.PassRender)()
func (m *Metrics) StartPass(pass string) func() {
	if m == nil {
		return func() {}
	}
	m.passesTotal.WithLabelValues(pass).Inc()
	timer := prometheus.NewTimer(m.passDuration.WithLabelValues(pass))
	return func() { timer.ObserveDuration() }
}

// RecordSkipped adds the skip counts of a normalization report.
func (m *Metrics) RecordSkipped(report schema.NormalizeReport) {
	if m == nil {
		return
	}
	m.skippedRecords.WithLabelValues("timestamp").Add(float64(report.SkippedTimestamp))
	m.skippedRecords.WithLabelValues("negative").Add(float64(report.SkippedNegative))
	m.skippedRecords.WithLabelValues("bot").Add(float64(report.SkippedBots))
}

// RecordDraw adds the shapes of one render.
func (m *Metrics) RecordDraw(candles, volumeBars, malformed int) {
	if m == nil {
		return
	}
	m.drawCalls.WithLabelValues("candle").Add(float64(candles))
	m.drawCalls.WithLabelValues("volume_bar").Add(float64(volumeBars))
	m.drawCalls.WithLabelValues("malformed").Add(float64(malformed))
}

// RecordImported counts events written to the store.
func (m *Metrics) RecordImported(n int) {
	if m == nil {
		return
	}
	m.eventsImported.Add(float64(n))
}

// WriteTextfile writes the current metrics in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
