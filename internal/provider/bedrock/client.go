package bedrock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"llm-bench/internal/provider"
)

// ClientConfig holds the configuration needed to create a Bedrock client
type ClientConfig struct {
	Region      string
	AccessKey   string
	SecretKey   string
	ModelID     string
	Temperature float64
	Streaming   bool
}

// Client runs chat completions against AWS Bedrock through the Converse API
type Client struct {
	client      *bedrockruntime.Client
	modelID     string
	temperature float64
	streaming   bool
}

// NewClient creates a new Bedrock client. Empty credentials fall back to the
// default credential chain (env, shared credentials, IAM role).
func NewClient(ctx context.Context, cfg *ClientConfig) (*Client, error) {
	var awsCfg aws.Config
	var err error

	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
	} else {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			),
		}
	}

	return &Client{
		client:      bedrockruntime.NewFromConfig(awsCfg),
		modelID:     cfg.ModelID,
		temperature: cfg.Temperature,
		streaming:   cfg.Streaming,
	}, nil
}

// Complete sends one converse request and returns timing and token usage
func (c *Client) Complete(ctx context.Context, req provider.Request) (*provider.InvokeResult, error) {
	if c.streaming {
		return c.converseStream(ctx, req)
	}
	return c.converse(ctx, req)
}

func (c *Client) converse(ctx context.Context, req provider.Request) (*provider.InvokeResult, error) {
	result := &provider.InvokeResult{StartTime: time.Now()}

	out, err := c.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId:         aws.String(c.modelID),
		Messages:        c.messages(req.Prompt),
		InferenceConfig: c.inferenceConfig(req.MaxTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("converse failed: %w", err)
	}
	result.EndTime = time.Now()

	if out.Usage != nil {
		result.InputTokens = int(aws.ToInt32(out.Usage.InputTokens))
		result.OutputTokens = int(aws.ToInt32(out.Usage.OutputTokens))
	}
	if msg, ok := out.Output.(*types.ConverseOutputMemberMessage); ok {
		result.ResponseContent = messageText(msg.Value)
	}
	return result, nil
}

func (c *Client) converseStream(ctx context.Context, req provider.Request) (*provider.InvokeResult, error) {
	result := &provider.InvokeResult{StartTime: time.Now()}

	out, err := c.client.ConverseStream(ctx, &bedrockruntime.ConverseStreamInput{
		ModelId:         aws.String(c.modelID),
		Messages:        c.messages(req.Prompt),
		InferenceConfig: c.inferenceConfig(req.MaxTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("converse stream failed: %w", err)
	}

	stream := out.GetStream()
	defer stream.Close()

	firstToken := true
	var contentBuilder strings.Builder

	for event := range stream.Events() {
		switch e := event.(type) {
		case *types.ConverseStreamOutputMemberContentBlockDelta:
			if delta, ok := e.Value.Delta.(*types.ContentBlockDeltaMemberText); ok {
				if firstToken {
					result.TTFT = time.Since(result.StartTime)
					firstToken = false
				}
				contentBuilder.WriteString(delta.Value)
			}
		case *types.ConverseStreamOutputMemberMetadata:
			if e.Value.Usage != nil {
				result.InputTokens = int(aws.ToInt32(e.Value.Usage.InputTokens))
				result.OutputTokens = int(aws.ToInt32(e.Value.Usage.OutputTokens))
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("stream error: %w", err)
	}

	result.EndTime = time.Now()
	result.ResponseContent = contentBuilder.String()
	return result, nil
}

func (c *Client) messages(prompt string) []types.Message {
	return []types.Message{
		{
			Role: types.ConversationRoleUser,
			Content: []types.ContentBlock{
				&types.ContentBlockMemberText{Value: prompt},
			},
		},
	}
}

func (c *Client) inferenceConfig(maxTokens int) *types.InferenceConfiguration {
	return &types.InferenceConfiguration{
		MaxTokens:   aws.Int32(int32(maxTokens)),
		Temperature: aws.Float32(float32(c.temperature)),
	}
}

func messageText(msg types.Message) string {
	var sb strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			sb.WriteString(text.Value)
		}
	}
	return sb.String()
}
