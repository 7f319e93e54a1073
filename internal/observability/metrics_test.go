package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/churnchart/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartPass(t *testing.T) {
	m := NewMetrics()
	m.StartPass(PassRender)()
	m.StartPass(PassRender)()
	m.StartPass(PassAggregate)()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.passesTotal.WithLabelValues(PassRender)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.passesTotal.WithLabelValues(PassAggregate)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.passDuration))
}

func TestRecordSkippedAndDraw(t *testing.T) {
	m := NewMetrics()
	m.RecordSkipped(schema.NormalizeReport{Accepted: 5, SkippedTimestamp: 2, SkippedNegative: 1, SkippedBots: 3})
	m.RecordDraw(10, 9, 1)
	m.RecordImported(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.skippedRecords.WithLabelValues("timestamp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skippedRecords.WithLabelValues("negative")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.skippedRecords.WithLabelValues("bot")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.drawCalls.WithLabelValues("candle")))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.drawCalls.WithLabelValues("volume_bar")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.eventsImported))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.StartPass(PassTrend)()
		m.RecordSkipped(schema.NormalizeReport{SkippedBots: 1})
		m.RecordDraw(1, 1, 0)
		m.RecordImported(1)
		assert.Nil(t, m.Registry())
		assert.NoError(t, m.WriteTextfile("/nonexistent/metrics.prom"))
	})
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.StartPass(PassNormalize)()

	path := filepath.Join(t.TempDir(), "churnchart.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `churnchart_passes_total{pass="normalize"} 1`)

	assert.Error(t, m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")))
}
