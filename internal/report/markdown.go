package report

import (
	"fmt"
	"os"
	"strings"

	"llm-bench/internal/config"
	"llm-bench/internal/types"
)

// MarkdownReporter generates markdown reports
type MarkdownReporter struct {
	config *config.Config
}

// NewMarkdownReporter creates a new markdown reporter
func NewMarkdownReporter(cfg *config.Config) *MarkdownReporter {
	return &MarkdownReporter{config: cfg}
}

// Generate generates the full markdown report
func (m *MarkdownReporter) Generate(summary *types.RunSummary) string {
	var sb strings.Builder

	sb.WriteString("# LLM Inference Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Run: %s  \n", summary.ID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", summary.Timestamp.Format("2006-01-02 15:04:05")))

	m.writeConfiguration(&sb, summary)
	m.writeResults(&sb, summary)
	m.writeLatency(&sb, summary)
	m.writeTTFT(&sb, summary)

	return sb.String()
}

// writeConfiguration writes the run configuration section
func (m *MarkdownReporter) writeConfiguration(sb *strings.Builder, summary *types.RunSummary) {
	sb.WriteString("## Configuration\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Backend | %s |\n", summary.Backend))
	if summary.Backend == config.BackendOpenAI {
		sb.WriteString(fmt.Sprintf("| Server | %s |\n", summary.URL))
	}
	sb.WriteString(fmt.Sprintf("| Model | %s |\n", summary.Model))
	sb.WriteString(fmt.Sprintf("| Workers | %d |\n", summary.Workers))
	sb.WriteString(fmt.Sprintf("| Requests | %d |\n", summary.Requests))
	sb.WriteString(fmt.Sprintf("| Prompt Tokens | %d |\n", summary.PromptTokens))
	sb.WriteString(fmt.Sprintf("| Max Tokens | %d |\n", summary.MaxTokens))
	sb.WriteString(fmt.Sprintf("| Streaming | %t |\n\n", summary.Streaming))
}

// writeResults writes the per-phase results table
func (m *MarkdownReporter) writeResults(sb *strings.Builder, summary *types.RunSummary) {
	sb.WriteString("## Results\n\n")
	sb.WriteString("| Phase | Workers | Requests | Duration (s) | Req/s | Tokens/s | Output Tokens |\n")
	sb.WriteString("|-------|---------|----------|--------------|-------|----------|---------------|\n")

	for _, phase := range summary.Phases {
		s := phase.Stats
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.2f | %.2f | %.1f | %d |\n",
			phase.Phase,
			phase.Workers,
			s.TotalRequests,
			s.Duration.Seconds(),
			s.RequestsPerSecond,
			s.TokenThroughput,
			s.TotalOutputTokens,
		))
	}
	sb.WriteString("\n")
}

// writeLatency writes the latency distribution table
func (m *MarkdownReporter) writeLatency(sb *strings.Builder, summary *types.RunSummary) {
	sb.WriteString("## Latency\n\n")
	sb.WriteString("| Phase | Min (ms) | Avg (ms) | Max (ms) | P50 (ms) | P95 (ms) | P99 (ms) |\n")
	sb.WriteString("|-------|----------|----------|----------|----------|----------|----------|\n")

	for _, phase := range summary.Phases {
		s := phase.Stats
		sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
			phase.Phase,
			s.MinLatency,
			s.AvgLatency,
			s.MaxLatency,
			s.P50Latency,
			s.P95Latency,
			s.P99Latency,
		))
	}
	sb.WriteString("\n")
}

// writeTTFT writes the TTFT table when streaming was enabled
func (m *MarkdownReporter) writeTTFT(sb *strings.Builder, summary *types.RunSummary) {
	hasTTFT := false
	for _, phase := range summary.Phases {
		if phase.Stats.HasTTFT {
			hasTTFT = true
			break
		}
	}
	if !hasTTFT {
		return
	}

	sb.WriteString("## Time to First Token\n\n")
	sb.WriteString("| Phase | Min (ms) | Avg (ms) | Max (ms) | P50 (ms) | P95 (ms) | P99 (ms) |\n")
	sb.WriteString("|-------|----------|----------|----------|----------|----------|----------|\n")

	for _, phase := range summary.Phases {
		s := phase.Stats
		if !s.HasTTFT {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
			phase.Phase,
			s.MinTTFT,
			s.AvgTTFT,
			s.MaxTTFT,
			s.P50TTFT,
			s.P95TTFT,
			s.P99TTFT,
		))
	}
	sb.WriteString("\n")
}

// SaveToFile saves the report to a file
func (m *MarkdownReporter) SaveToFile(content string, filename string) error {
	return os.WriteFile(filename, []byte(content), 0644)
}
