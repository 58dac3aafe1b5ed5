package types

import "time"

// Stats contains computed statistics for one benchmark phase
type Stats struct {
	// General stats
	TotalRequests int
	Duration      time.Duration

	// Token stats
	TotalInputTokens  int
	TotalOutputTokens int
	TokenThroughput   float64 // output tokens per second

	// Latency stats (in milliseconds)
	AvgLatency float64
	MinLatency float64
	MaxLatency float64
	P50Latency float64
	P95Latency float64
	P99Latency float64

	// TTFT stats (in milliseconds, only for streaming)
	HasTTFT bool
	AvgTTFT float64
	MinTTFT float64
	MaxTTFT float64
	P50TTFT float64
	P95TTFT float64
	P99TTFT float64

	// Throughput
	RequestsPerSecond float64
}

// PhaseStats pairs a named benchmark phase with its statistics
type PhaseStats struct {
	Phase   string
	Workers int
	Stats   *Stats
}

// Benchmark phase names
const (
	PhaseSequential = "sequential"
	PhaseConcurrent = "concurrent"
)

// RunSummary is the complete result of one benchmark invocation
type RunSummary struct {
	ID        string
	Timestamp time.Time

	URL          string
	Model        string
	Backend      string
	Workers      int
	Requests     int
	PromptTokens int
	MaxTokens    int
	Streaming    bool

	Phases []*PhaseStats
}

// Phase returns the stats for the named phase, or nil if it did not run
func (r *RunSummary) Phase(name string) *Stats {
	for _, p := range r.Phases {
		if p.Phase == name {
			return p.Stats
		}
	}
	return nil
}
