package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-bench/internal/types"
)

func testSummary(model string, ts time.Time) *types.RunSummary {
	return &types.RunSummary{
		ID:           uuid.NewString(),
		Timestamp:    ts,
		URL:          "http://127.0.0.1:30000",
		Model:        model,
		Backend:      "openai",
		Workers:      8,
		Requests:     50,
		PromptTokens: 50,
		MaxTokens:    100,
		Phases: []*types.PhaseStats{
			{
				Phase:   types.PhaseConcurrent,
				Workers: 8,
				Stats: &types.Stats{
					TotalRequests:     50,
					Duration:          10 * time.Second,
					TotalOutputTokens: 5000,
					RequestsPerSecond: 5.0,
					TokenThroughput:   500.0,
					AvgLatency:        1500.0,
					P50Latency:        1400.0,
					P99Latency:        2800.0,
				},
			},
		},
	}
}

func TestSaveAndRecent(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "bench.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	require.NoError(t, s.Save(ctx, testSummary("model-a", base)))
	require.NoError(t, s.Save(ctx, testSummary("model-b", base.Add(time.Minute))))

	runs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// newest first
	assert.Equal(t, "model-b", runs[0].Model)
	assert.Equal(t, "model-a", runs[1].Model)
	assert.Equal(t, 8, runs[0].Workers)
	assert.Equal(t, 50, runs[0].Requests)
	assert.InDelta(t, 5.0, runs[0].RequestsPerSecond, 1e-9)
	assert.InDelta(t, 2800.0, runs[0].P99LatencyMs, 1e-9)
}

func TestRecentLimit(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "bench.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(ctx, testSummary("m", time.Now().Add(time.Duration(i)*time.Second))))
	}

	runs, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestSaveRequiresConcurrentPhase(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "bench.db"))
	require.NoError(t, err)
	defer s.Close()

	summary := testSummary("m", time.Now())
	summary.Phases = nil
	require.Error(t, s.Save(context.Background(), summary))
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), testSummary("m", time.Now())))
	require.NoError(t, s.Close())

	// reopening migrates without clobbering existing rows
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
