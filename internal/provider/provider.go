package provider

import (
	"context"
	"time"
)

// Request describes one chat-completion call
type Request struct {
	Prompt    string
	MaxTokens int
}

// InvokeResult contains the outcome of one completed call
type InvokeResult struct {
	StartTime       time.Time
	EndTime         time.Time
	TTFT            time.Duration // Time to first token (only for streaming)
	InputTokens     int
	OutputTokens    int
	ResponseContent string
}

// Duration returns the total duration of the request
func (r *InvokeResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Provider issues chat-completion requests against one inference backend.
// Complete blocks until the response is fully received; any transport or
// decoding failure is returned as an error and ends the benchmark run.
type Provider interface {
	Complete(ctx context.Context, req Request) (*InvokeResult, error)
}
