package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"llm-bench/internal/config"
	"llm-bench/internal/provider"
	"llm-bench/internal/types"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	sectionColor = color.New(color.FgYellow)
	metricColor  = color.New(color.FgGreen, color.Bold)
)

// ConsoleReporter handles real-time console output
type ConsoleReporter struct{}

// NewConsoleReporter creates a new console reporter
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// PrintHeader prints the run header
func (c *ConsoleReporter) PrintHeader(cfg *config.Config) {
	fmt.Println(strings.Repeat("=", 60))
	headerColor.Println("LLM Inference Benchmark")
	fmt.Println(strings.Repeat("=", 60))
	if cfg.Backend == config.BackendBedrock {
		fmt.Printf("Backend: bedrock (%s)\n", cfg.AWS.Region)
	} else {
		fmt.Printf("Server: %s\n", cfg.URL)
	}
	fmt.Printf("Model: %s\n", cfg.Model)
	fmt.Printf("Workers: %d, Requests: %d\n", cfg.Workers, cfg.Requests)
	fmt.Printf("Prompt Tokens: %d, Max Tokens: %d\n", cfg.PromptTokens, cfg.MaxTokens)
	if cfg.Stream {
		fmt.Println("Mode: streaming")
	}
	if cfg.Rate > 0 {
		fmt.Printf("Dispatch Rate Cap: %.2f req/s\n", cfg.Rate)
	}
	fmt.Println()
}

// PrintSection prints a section header
func (c *ConsoleReporter) PrintSection(title string) {
	fmt.Println()
	sectionColor.Printf("--- %s ---\n", title)
}

// PrintWarmup prints the warmup notice
func (c *ConsoleReporter) PrintWarmup(calls int) {
	fmt.Printf("Warming up (%d requests)...\n", calls)
}

// PrintSequentialSample prints one sequential-phase measurement
func (c *ConsoleReporter) PrintSequentialSample(i int, result *provider.InvokeResult) {
	latencyMs := float64(result.Duration().Microseconds()) / 1000.0
	fmt.Printf("  Request %d: %.1fms, %d tokens\n", i, latencyMs, result.OutputTokens)
}

// PrintSequentialAverage prints the sequential-phase average latency
func (c *ConsoleReporter) PrintSequentialAverage(stats *types.Stats) {
	fmt.Printf("  Average: %.1fms\n", stats.AvgLatency)
}

// PrintStats prints detailed statistics for a completed phase
func (c *ConsoleReporter) PrintStats(stats *types.Stats) {
	fmt.Printf("  Total time: %.2fs\n", stats.Duration.Seconds())
	fmt.Printf("  Avg latency: %.1fms\n", stats.AvgLatency)
	fmt.Printf("  P50 latency: %.1fms\n", stats.P50Latency)
	fmt.Printf("  P99 latency: %.1fms\n", stats.P99Latency)
	fmt.Printf("  Throughput: %.2f req/s, %.1f tok/s\n",
		stats.RequestsPerSecond, stats.TokenThroughput)
	fmt.Printf("  Total tokens: %d\n", stats.TotalOutputTokens)

	if stats.HasTTFT {
		fmt.Println("\n  Time to First Token:")
		fmt.Printf("    Avg: %.1fms | P50: %.1fms | P99: %.1fms\n",
			stats.AvgTTFT, stats.P50TTFT, stats.P99TTFT)
	}
}

// PrintKeyMetrics prints the closing comparison block
func (c *ConsoleReporter) PrintKeyMetrics(stats *types.Stats) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("KEY METRICS:")
	metricColor.Printf("  Throughput: %.2f req/s\n", stats.RequestsPerSecond)
	metricColor.Printf("  P99 Latency: %.1fms\n", stats.P99Latency)
	fmt.Println(strings.Repeat("=", 60))
}

// PrintReportSaved prints a message indicating the report was saved
func (c *ConsoleReporter) PrintReportSaved(filename string) {
	fmt.Printf("\nReport saved to: %s\n", filename)
}

// PrintError prints an error message
func (c *ConsoleReporter) PrintError(err error) {
	color.Red("\n[ERROR] %v\n", err)
}
