package benchmark

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-bench/internal/config"
	"llm-bench/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		URL:             "http://127.0.0.1:30000",
		Model:           "test-model",
		Backend:         config.BackendOpenAI,
		Workers:         4,
		Requests:        12,
		PromptTokens:    50,
		MaxTokens:       100,
		WarmupCalls:     2,
		SequentialCalls: 3,
	}
}

func TestRunnerPhases(t *testing.T) {
	prov := &fakeProvider{delay: 2 * time.Millisecond, tokens: 25}
	runner := NewRunner(testConfig(), prov)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Phases, 2)
	assert.Equal(t, types.PhaseSequential, summary.Phases[0].Phase)
	assert.Equal(t, types.PhaseConcurrent, summary.Phases[1].Phase)

	seq := summary.Phase(types.PhaseSequential)
	require.NotNil(t, seq)
	assert.Equal(t, 3, seq.TotalRequests)

	conc := summary.Phase(types.PhaseConcurrent)
	require.NotNil(t, conc)
	assert.Equal(t, 12, conc.TotalRequests)
	assert.Equal(t, 12*25, conc.TotalOutputTokens)
	assert.LessOrEqual(t, conc.P50Latency, conc.P99Latency)

	// warmup + sequential + concurrent calls all reached the provider
	assert.Equal(t, 2+3+12, prov.callCount())

	assert.NotEmpty(t, summary.ID)
	assert.Equal(t, "test-model", summary.Model)
	assert.Equal(t, 4, summary.Workers)
}

func TestRunnerSkipsOptionalPhases(t *testing.T) {
	cfg := testConfig()
	cfg.WarmupCalls = 0
	cfg.SequentialCalls = 0
	prov := &fakeProvider{delay: time.Millisecond, tokens: 10}
	runner := NewRunner(cfg, prov)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Phases, 1)
	assert.Equal(t, types.PhaseConcurrent, summary.Phases[0].Phase)
	assert.Equal(t, 12, prov.callCount())
}

func TestRunnerAbortsOnWarmupFailure(t *testing.T) {
	prov := &fakeProvider{delay: time.Millisecond, tokens: 10, failAfter: 1}
	runner := NewRunner(testConfig(), prov)

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warmup failed")
}

func TestRunnerAbortsOnConcurrentFailure(t *testing.T) {
	cfg := testConfig()
	// fail after warmup and sequential phases have passed
	prov := &fakeProvider{delay: time.Millisecond, tokens: 10, failAfter: 8}
	runner := NewRunner(cfg, prov)

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrent phase failed")
}
