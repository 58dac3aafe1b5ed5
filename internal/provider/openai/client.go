package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"llm-bench/internal/provider"
)

const completionsPath = "/v1/chat/completions"

// ClientConfig holds the configuration needed to create a Client
type ClientConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Streaming   bool
	Timeout     time.Duration
}

// Client talks to an OpenAI-compatible chat-completions endpoint
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	streaming   bool
}

// NewClient creates a new client for an OpenAI-compatible server
func NewClient(cfg *ClientConfig) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		streaming:   cfg.Streaming,
	}
}

// Complete sends one chat-completion request and returns its timing and
// token usage. In streaming mode the response is consumed as SSE chunks and
// TTFT is recorded at the first content delta.
func (c *Client) Complete(ctx context.Context, req provider.Request) (*provider.InvokeResult, error) {
	body, err := c.prepareRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	result := &provider.InvokeResult{StartTime: time.Now()}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	if c.streaming {
		err = c.consumeStream(resp.Body, result)
	} else {
		err = c.parseResponse(resp.Body, result)
	}
	if err != nil {
		return nil, err
	}

	result.EndTime = time.Now()
	return result, nil
}

// prepareRequest builds the chat-completions JSON body
func (c *Client) prepareRequest(req provider.Request) ([]byte, error) {
	body := ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: c.temperature,
	}
	if c.streaming {
		body.Stream = true
		// usage is only reported on the final chunk when asked for
		body.StreamOptions = &StreamOptions{IncludeUsage: true}
	}
	return json.Marshal(body)
}

// parseResponse parses a non-streaming chat-completions response
func (c *Client) parseResponse(body io.Reader, result *provider.InvokeResult) error {
	var resp ChatResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Usage == nil {
		return fmt.Errorf("response missing usage field")
	}

	result.InputTokens = resp.Usage.PromptTokens
	result.OutputTokens = resp.Usage.CompletionTokens
	if len(resp.Choices) > 0 {
		result.ResponseContent = resp.Choices[0].Message.Content
	}
	return nil
}

// consumeStream reads SSE "data:" lines until [DONE], accumulating content
// deltas and capturing usage from the final chunk
func (c *Client) consumeStream(body io.Reader, result *provider.InvokeResult) error {
	firstToken := true
	var contentBuilder strings.Builder

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}

		var chunk ChatStreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return fmt.Errorf("failed to parse stream chunk: %w", err)
		}

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta != nil {
			if content := chunk.Choices[0].Delta.Content; content != "" {
				if firstToken {
					result.TTFT = time.Since(result.StartTime)
					firstToken = false
				}
				contentBuilder.WriteString(content)
			}
		}

		if chunk.Usage != nil {
			result.InputTokens = chunk.Usage.PromptTokens
			result.OutputTokens = chunk.Usage.CompletionTokens
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream error: %w", err)
	}

	result.ResponseContent = contentBuilder.String()
	return nil
}
