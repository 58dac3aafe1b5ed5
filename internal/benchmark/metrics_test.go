package benchmark

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"llm-bench/internal/provider"
)

func resultWithLatency(d time.Duration, tokens int) *provider.InvokeResult {
	end := time.Now()
	return &provider.InvokeResult{
		StartTime:    end.Add(-d),
		EndTime:      end,
		InputTokens:  50,
		OutputTokens: tokens,
	}
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, median(nil))
	assert.Equal(t, 3.0, median([]float64{3}))
	assert.Equal(t, 2.0, median([]float64{1, 3}))
	assert.Equal(t, 2.0, median([]float64{1, 2, 9}))
	assert.Equal(t, 2.5, median([]float64{1, 2, 3, 9}))
}

func TestPercentileIndexing(t *testing.T) {
	// 50 samples: p99 picks index floor(0.99*50) = 49, the max
	sorted := make([]float64, 50)
	for i := range sorted {
		sorted[i] = float64(i + 1)
	}
	assert.Equal(t, 50.0, percentile(sorted, 0.99))
	assert.Equal(t, 48.0, percentile(sorted, 0.95))

	// 100 samples: floor(0.99*100) = 99 clamps to the last element
	sorted = make([]float64, 100)
	for i := range sorted {
		sorted[i] = float64(i + 1)
	}
	assert.Equal(t, 100.0, percentile(sorted, 0.99))

	assert.Equal(t, 0.0, percentile(nil, 0.99))
	assert.Equal(t, 7.0, percentile([]float64{7}, 0.99))
}

func TestP50NeverExceedsP99(t *testing.T) {
	m := NewMetrics()
	latencies := []time.Duration{
		90 * time.Millisecond,
		10 * time.Millisecond,
		250 * time.Millisecond,
		40 * time.Millisecond,
		40 * time.Millisecond,
		130 * time.Millisecond,
		75 * time.Millisecond,
	}
	for _, d := range latencies {
		m.Add(resultWithLatency(d, 100))
	}
	m.Finalize()

	stats := m.ComputeStats()
	assert.LessOrEqual(t, stats.P50Latency, stats.P99Latency)
	assert.LessOrEqual(t, stats.MinLatency, stats.P50Latency)
	assert.LessOrEqual(t, stats.P99Latency, stats.MaxLatency)
}

func TestComputeStatsThroughput(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < 10; i++ {
		m.Add(resultWithLatency(20*time.Millisecond, 100))
	}
	m.Finalize()

	stats := m.ComputeStats()
	assert.Equal(t, 10, stats.TotalRequests)
	assert.Equal(t, 1000, stats.TotalOutputTokens)
	assert.Equal(t, 500, stats.TotalInputTokens)

	// tok/s must equal total tokens / span within float tolerance
	span := stats.Duration.Seconds()
	assert.InDelta(t, float64(stats.TotalOutputTokens)/span, stats.TokenThroughput, 1e-9)
	assert.InDelta(t, float64(stats.TotalRequests)/span, stats.RequestsPerSecond, 1e-9)
}

func TestComputeStatsEmpty(t *testing.T) {
	m := NewMetrics()
	m.Finalize()
	stats := m.ComputeStats()

	assert.Equal(t, 0, stats.TotalRequests)
	assert.Equal(t, 0.0, stats.AvgLatency)
	assert.False(t, stats.HasTTFT)
	assert.False(t, math.IsNaN(stats.RequestsPerSecond))
}

func TestTTFTOnlyRecordedWhenPresent(t *testing.T) {
	m := NewMetrics()
	r := resultWithLatency(100*time.Millisecond, 50)
	r.TTFT = 30 * time.Millisecond
	m.Add(r)
	m.Add(resultWithLatency(100*time.Millisecond, 50))
	m.Finalize()

	stats := m.ComputeStats()
	assert.True(t, stats.HasTTFT)
	assert.InDelta(t, 30.0, stats.AvgTTFT, 0.5)
}
