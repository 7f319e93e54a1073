package interact

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/churnchart/core/agg"
	"github.com/huangsam/churnchart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 20 * time.Millisecond

func TestDebouncer_CollapsesBurst(t *testing.T) {
	d := NewDebouncer(testDelay)
	var calls atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 5; i++ {
		v := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(v)
		})
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(1), calls.Load(), "a burst runs exactly once")
	assert.Equal(t, int32(5), last.Load(), "the last action wins")
	assert.False(t, d.Pending())
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(testDelay)
	var calls atomic.Int32

	d.Trigger(func() { calls.Add(1) })
	assert.True(t, d.Pending())
	d.Cancel()

	time.Sleep(3 * testDelay)
	assert.Zero(t, calls.Load())
	assert.False(t, d.Pending())
}

func TestDebouncer_Flush(t *testing.T) {
	d := NewDebouncer(time.Hour)
	calls := 0

	d.Trigger(func() { calls++ })
	d.Flush()
	assert.Equal(t, 1, calls, "flush runs synchronously")

	d.Flush()
	assert.Equal(t, 1, calls, "nothing left to flush")
}

func TestDebouncer_ConcurrentTriggers(t *testing.T) {
	d := NewDebouncer(testDelay)
	var calls atomic.Int32

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			d.Trigger(func() { calls.Add(1) })
		})
	}
	wg.Wait()

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewDebouncer_DefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultDelay, NewDebouncer(0).delay)
}

func TestToggle(t *testing.T) {
	t.Run("burst applies final value once", func(t *testing.T) {
		var mu sync.Mutex
		var changes []bool
		tg := NewToggle("logarithmicScale", false, time.Hour, func(name string, v bool) {
			assert.Equal(t, "logarithmicScale", name)
			mu.Lock()
			changes = append(changes, v)
			mu.Unlock()
		})

		tg.Set(true)
		tg.Set(false)
		tg.Set(true)
		assert.False(t, tg.Value(), "not applied until the quiet period ends")
		assert.True(t, tg.Requested())

		tg.Flush()
		assert.True(t, tg.Value())
		mu.Lock()
		assert.Equal(t, []bool{true}, changes)
		mu.Unlock()
	})

	t.Run("burst ending at start applies nothing", func(t *testing.T) {
		calls := 0
		tg := NewToggle("includeBots", true, time.Hour, func(string, bool) { calls++ })

		tg.Set(false)
		tg.Set(true)
		tg.Flush()

		assert.True(t, tg.Value())
		assert.Zero(t, calls)
	})

	t.Run("cancel reverts request", func(t *testing.T) {
		tg := NewToggle("includeBots", false, time.Hour, nil)
		tg.Set(true)
		tg.Cancel()
		tg.Flush()

		assert.False(t, tg.Value())
		assert.False(t, tg.Requested())
	})

	t.Run("applies after delay", func(t *testing.T) {
		var applied atomic.Bool
		tg := NewToggle("logarithmicScale", false, testDelay, func(_ string, v bool) { applied.Store(v) })
		tg.Set(true)
		assert.Eventually(t, applied.Load, time.Second, 5*time.Millisecond)
	})
}

func denseSeries(n int) schema.DenseSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(schema.DenseSeries, n)
	for i := range n {
		series[i] = schema.DailyBucket{Date: start.AddDate(0, 0, i), Additions: i + 1, Deletions: n - i}
	}
	return series
}

func TestCorrelator_BucketAt(t *testing.T) {
	series := denseSeries(10)
	c := NewCorrelator(100, 50, series, agg.ProjectCandles(series))

	tip := c.BucketAt(55, 20)
	require.NotNil(t, tip)
	assert.Equal(t, 5, tip.Index)
	assert.Equal(t, series[5], tip.Bucket)
	assert.Equal(t, 5, tip.Candle.Index)
	assert.InDelta(t, 55.0, tip.ScreenX, 1e-9)
	assert.Equal(t, 20.0, tip.ScreenY)

	first := c.BucketAt(0, 0)
	require.NotNil(t, first)
	assert.Equal(t, 0, first.Index)

	last := c.BucketAt(99.99, 49)
	require.NotNil(t, last)
	assert.Equal(t, 9, last.Index)
}

func TestCorrelator_OutsideSurface(t *testing.T) {
	series := denseSeries(10)
	c := NewCorrelator(100, 50, series, agg.ProjectCandles(series))

	assert.Nil(t, c.BucketAt(-0.1, 10))
	assert.Nil(t, c.BucketAt(100, 10))
	assert.Nil(t, c.BucketAt(50, -1))
	assert.Nil(t, c.BucketAt(50, 50))
}

func TestCorrelator_NothingDrawn(t *testing.T) {
	assert.Nil(t, NewCorrelator(100, 50, nil, nil).BucketAt(10, 10))

	one := denseSeries(1)
	assert.Nil(t, NewCorrelator(100, 50, one, agg.ProjectCandles(one)).BucketAt(10, 10))
}

func TestCorrelator_MatchesEverySlot(t *testing.T) {
	series := denseSeries(37)
	c := NewCorrelator(333, 100, series, agg.ProjectCandles(series))
	slot := 333.0 / 37.0

	for i := range series {
		tip := c.BucketAt((float64(i)+0.5)*slot, 10)
		require.NotNil(t, tip)
		assert.Equal(t, series[i].Date, tip.Bucket.Date, "slot %d", i)
	}
}
