package benchmark

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"llm-bench/internal/config"
	"llm-bench/internal/provider"
	"llm-bench/internal/report"
	"llm-bench/internal/types"
)

// Warmup calls use a short prompt; their results are discarded
const (
	warmupPromptTokens = 10
	warmupMaxTokens    = 20
)

// Runner orchestrates one benchmark run: warmup, a sequential latency
// sample, then a concurrent batch through the worker pool
type Runner struct {
	cfg     *config.Config
	prov    provider.Provider
	console *report.ConsoleReporter
}

// NewRunner creates a new benchmark runner
func NewRunner(cfg *config.Config, prov provider.Provider) *Runner {
	return &Runner{
		cfg:     cfg,
		prov:    prov,
		console: report.NewConsoleReporter(),
	}
}

// Run executes the benchmark and returns the aggregated summary
func (r *Runner) Run(ctx context.Context) (*types.RunSummary, error) {
	r.console.PrintHeader(r.cfg)

	if err := r.warmup(ctx); err != nil {
		return nil, fmt.Errorf("warmup failed: %w", err)
	}

	summary := &types.RunSummary{
		ID:           uuid.NewString(),
		Timestamp:    time.Now(),
		URL:          r.cfg.URL,
		Model:        r.cfg.Model,
		Backend:      r.cfg.Backend,
		Workers:      r.cfg.Workers,
		Requests:     r.cfg.Requests,
		PromptTokens: r.cfg.PromptTokens,
		MaxTokens:    r.cfg.MaxTokens,
		Streaming:    r.cfg.Stream,
	}

	if r.cfg.SequentialCalls > 0 {
		stats, err := r.runSequential(ctx)
		if err != nil {
			return nil, fmt.Errorf("sequential phase failed: %w", err)
		}
		summary.Phases = append(summary.Phases, &types.PhaseStats{
			Phase:   types.PhaseSequential,
			Workers: 1,
			Stats:   stats,
		})
	}

	stats, err := r.runConcurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("concurrent phase failed: %w", err)
	}
	summary.Phases = append(summary.Phases, &types.PhaseStats{
		Phase:   types.PhaseConcurrent,
		Workers: r.cfg.Workers,
		Stats:   stats,
	})

	r.console.PrintKeyMetrics(stats)

	return summary, nil
}

// warmup issues a few short discarded calls so model load and connection
// setup don't distort the timed phases
func (r *Runner) warmup(ctx context.Context) error {
	if r.cfg.WarmupCalls == 0 {
		return nil
	}
	r.console.PrintWarmup(r.cfg.WarmupCalls)

	req := provider.Request{
		Prompt:    SyntheticPrompt(warmupPromptTokens),
		MaxTokens: warmupMaxTokens,
	}
	for i := 0; i < r.cfg.WarmupCalls; i++ {
		if _, err := r.prov.Complete(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// runSequential issues timed single-shot calls one after another, printing
// each latency and the average
func (r *Runner) runSequential(ctx context.Context) (*types.Stats, error) {
	r.console.PrintSection(fmt.Sprintf("Single Request Latency (%d requests)", r.cfg.SequentialCalls))

	req := provider.Request{
		Prompt:    SyntheticPrompt(r.cfg.PromptTokens),
		MaxTokens: r.cfg.MaxTokens,
	}

	metrics := NewMetrics()
	for i := 0; i < r.cfg.SequentialCalls; i++ {
		result, err := r.prov.Complete(ctx, req)
		if err != nil {
			return nil, err
		}
		metrics.Add(result)
		r.console.PrintSequentialSample(i+1, result)
	}
	metrics.Finalize()

	stats := metrics.ComputeStats()
	r.console.PrintSequentialAverage(stats)
	return stats, nil
}

// runConcurrent dispatches the batch through the worker pool and measures
// the wall-clock span from first submission to last completion
func (r *Runner) runConcurrent(ctx context.Context) (*types.Stats, error) {
	r.console.PrintSection(fmt.Sprintf("Concurrent Load (%d workers, %d requests)",
		r.cfg.Workers, r.cfg.Requests))

	req := provider.Request{
		Prompt:    SyntheticPrompt(r.cfg.PromptTokens),
		MaxTokens: r.cfg.MaxTokens,
	}

	metrics := NewMetrics()
	pool := NewWorkerPool(r.prov, metrics, r.cfg.Workers, r.cfg.Rate)

	if err := pool.Run(ctx, req, r.cfg.Requests); err != nil {
		return nil, err
	}
	metrics.Finalize()

	if got := metrics.Count(); got != r.cfg.Requests {
		// every dispatched request must yield exactly one sample
		return nil, fmt.Errorf("collected %d samples, expected %d", got, r.cfg.Requests)
	}

	stats := metrics.ComputeStats()
	slog.Debug("concurrent phase complete",
		"requests", stats.TotalRequests,
		"duration", stats.Duration,
		"req_per_sec", stats.RequestsPerSecond)
	r.console.PrintStats(stats)
	return stats, nil
}

// GenerateReport writes the markdown report when a report path is configured
func (r *Runner) GenerateReport(summary *types.RunSummary) error {
	if r.cfg.ReportFile == "" {
		return nil
	}

	generator := report.NewMarkdownReporter(r.cfg)
	content := generator.Generate(summary)

	if err := generator.SaveToFile(content, r.cfg.ReportFile); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	r.console.PrintReportSaved(r.cfg.ReportFile)
	return nil
}
