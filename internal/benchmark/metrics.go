package benchmark

import (
	"sort"
	"sync"
	"time"

	"llm-bench/internal/provider"
	"llm-bench/internal/types"
)

// Metrics collects results from one benchmark phase and computes statistics.
// Add is safe for concurrent use; results arrive in completion order.
type Metrics struct {
	mu sync.Mutex

	startTime time.Time
	endTime   time.Time

	totalRequests     int
	totalInputTokens  int
	totalOutputTokens int

	// in milliseconds
	latencies []float64
	ttfts     []float64
}

// NewMetrics creates a new collector; the phase span starts now
func NewMetrics() *Metrics {
	return &Metrics{
		latencies: make([]float64, 0),
		ttfts:     make([]float64, 0),
		startTime: time.Now(),
	}
}

// Add records one completed request
func (m *Metrics) Add(result *provider.InvokeResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRequests++
	m.totalInputTokens += result.InputTokens
	m.totalOutputTokens += result.OutputTokens

	latencyMs := float64(result.Duration().Microseconds()) / 1000.0
	m.latencies = append(m.latencies, latencyMs)

	if result.TTFT > 0 {
		ttftMs := float64(result.TTFT.Microseconds()) / 1000.0
		m.ttfts = append(m.ttfts, ttftMs)
	}
}

// Count returns the number of recorded results
func (m *Metrics) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalRequests
}

// Finalize marks the end of the phase span
func (m *Metrics) Finalize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endTime = time.Now()
}

// ComputeStats computes statistics from collected results
func (m *Metrics) ComputeStats() *types.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &types.Stats{
		TotalRequests:     m.totalRequests,
		TotalInputTokens:  m.totalInputTokens,
		TotalOutputTokens: m.totalOutputTokens,
	}

	if m.endTime.IsZero() {
		stats.Duration = time.Since(m.startTime)
	} else {
		stats.Duration = m.endTime.Sub(m.startTime)
	}

	durationSeconds := stats.Duration.Seconds()
	if durationSeconds > 0 {
		stats.RequestsPerSecond = float64(m.totalRequests) / durationSeconds
		stats.TokenThroughput = float64(m.totalOutputTokens) / durationSeconds
	}

	if len(m.latencies) > 0 {
		sorted := make([]float64, len(m.latencies))
		copy(sorted, m.latencies)
		sort.Float64s(sorted)

		stats.AvgLatency = average(sorted)
		stats.MinLatency = sorted[0]
		stats.MaxLatency = sorted[len(sorted)-1]
		stats.P50Latency = median(sorted)
		stats.P95Latency = percentile(sorted, 0.95)
		stats.P99Latency = percentile(sorted, 0.99)
	}

	if len(m.ttfts) > 0 {
		sorted := make([]float64, len(m.ttfts))
		copy(sorted, m.ttfts)
		sort.Float64s(sorted)

		stats.HasTTFT = true
		stats.AvgTTFT = average(sorted)
		stats.MinTTFT = sorted[0]
		stats.MaxTTFT = sorted[len(sorted)-1]
		stats.P50TTFT = median(sorted)
		stats.P95TTFT = percentile(sorted, 0.95)
		stats.P99TTFT = percentile(sorted, 0.99)
	}

	return stats
}

// average calculates the mean of a slice of float64
func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median returns the middle element of a sorted slice, averaging the middle
// pair for even lengths
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2.0
}

// percentile returns the element at index floor(p*N) of a sorted slice,
// clamped to the last element. Index-based rather than interpolated; for the
// batch sizes this tool runs (tens of requests) the difference is noise.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(p * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}
