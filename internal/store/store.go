package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"llm-bench/internal/types"
)

// Store persists run summaries to SQLite so runs against different server
// builds can be compared later.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at the given path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate runs table: %w", err)
	}
	return s, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the runs table if it doesn't exist
func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			timestamp DATETIME NOT NULL,

			-- Target
			url TEXT,
			model TEXT NOT NULL,
			backend TEXT NOT NULL,

			-- Load shape
			workers INTEGER NOT NULL,
			requests INTEGER NOT NULL,
			prompt_tokens INTEGER NOT NULL,
			max_tokens INTEGER NOT NULL,
			streaming INTEGER NOT NULL DEFAULT 0,

			-- Concurrent-phase results
			duration_seconds REAL NOT NULL,
			requests_per_second REAL NOT NULL,
			tokens_per_second REAL NOT NULL,
			total_output_tokens INTEGER NOT NULL,
			avg_latency_ms REAL,
			p50_latency_ms REAL,
			p99_latency_ms REAL,

			-- Full JSON for detailed data
			full_summary_json TEXT,

			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_model ON runs(model);
		CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`)
	return err
}

// Save persists one run summary. The concurrent phase is denormalized into
// columns; the whole summary is kept as JSON alongside.
func (s *Store) Save(ctx context.Context, summary *types.RunSummary) error {
	conc := summary.Phase(types.PhaseConcurrent)
	if conc == nil {
		return fmt.Errorf("summary has no concurrent phase")
	}

	fullJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, timestamp, url, model, backend,
			workers, requests, prompt_tokens, max_tokens, streaming,
			duration_seconds, requests_per_second, tokens_per_second,
			total_output_tokens, avg_latency_ms, p50_latency_ms, p99_latency_ms,
			full_summary_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.ID, summary.Timestamp, summary.URL, summary.Model, summary.Backend,
		summary.Workers, summary.Requests, summary.PromptTokens, summary.MaxTokens, summary.Streaming,
		conc.Duration.Seconds(), conc.RequestsPerSecond, conc.TokenThroughput,
		conc.TotalOutputTokens, conc.AvgLatency, conc.P50Latency, conc.P99Latency,
		string(fullJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Run is one row of the runs table as listed by the history command
type Run struct {
	ID                string
	Timestamp         time.Time
	Model             string
	Backend           string
	Workers           int
	Requests          int
	RequestsPerSecond float64
	TokensPerSecond   float64
	P50LatencyMs      float64
	P99LatencyMs      float64
}

// Recent returns the most recent runs, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, model, backend, workers, requests,
		       requests_per_second, tokens_per_second, p50_latency_ms, p99_latency_ms
		FROM runs
		ORDER BY timestamp DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.Timestamp, &r.Model, &r.Backend, &r.Workers, &r.Requests,
			&r.RequestsPerSecond, &r.TokensPerSecond, &r.P50LatencyMs, &r.P99LatencyMs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}
