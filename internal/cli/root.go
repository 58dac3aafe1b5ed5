package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"llm-bench/internal/benchmark"
	"llm-bench/internal/config"
	"llm-bench/internal/logging"
	"llm-bench/internal/provider"
	"llm-bench/internal/provider/bedrock"
	"llm-bench/internal/provider/openai"
	"llm-bench/internal/store"
)

var (
	cfgFile string
	v       = viper.New()
)

// rootCmd runs the benchmark; subcommands cover everything else
var rootCmd = &cobra.Command{
	Use:   "llm-bench",
	Short: "Latency and throughput benchmark for LLM inference servers",
	Long: `llm-bench drives an OpenAI-compatible chat-completions endpoint
(or AWS Bedrock) with sequential and concurrent load and reports
latency percentiles plus request and token throughput.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBenchmark()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML config file; flags take precedence")

	flags := rootCmd.Flags()
	flags.String("url", "http://127.0.0.1:30000", "base address of the target inference server")
	flags.String("model", "Qwen/Qwen2.5-1.5B-Instruct", "model identifier placed in the request payload")
	flags.String("backend", config.BackendOpenAI, "inference backend (openai, bedrock)")
	flags.String("api-key", "", "bearer token for the openai backend")
	flags.Int("workers", 8, "concurrent worker pool size")
	flags.Int("requests", 50, "number of requests in the concurrent batch")
	flags.Int("prompt-tokens", 50, "synthetic prompt length in tokens")
	flags.Int("max-tokens", 100, "requested generation length cap")
	flags.Bool("stream", false, "use streaming responses and report TTFT")
	flags.Float64("rate", 0, "dispatch cap in requests/sec (0 = unlimited)")
	flags.Duration("timeout", 0, "per-request timeout (0 = none)")
	flags.String("report", "", "write a markdown report to this path")
	flags.String("db", "", "append the run summary to this SQLite history database")
	flags.String("region", "us-east-1", "AWS region for the bedrock backend")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	bind := map[string]string{
		"url":           "url",
		"model":         "model",
		"backend":       "backend",
		"api_key":       "api-key",
		"workers":       "workers",
		"requests":      "requests",
		"prompt_tokens": "prompt-tokens",
		"max_tokens":    "max-tokens",
		"stream":        "stream",
		"rate":          "rate",
		"timeout":       "timeout",
		"report":        "report",
		"db":            "db",
		"aws.region":    "region",
		"log_level":     "log-level",
	}
	for key, flag := range bind {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func runBenchmark() error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	logging.Setup(logging.Config{Level: cfg.LogLevel})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	prov, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	runner := benchmark.NewRunner(cfg, prov)
	summary, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	if err := runner.GenerateReport(summary); err != nil {
		return err
	}

	if cfg.DBPath != "" {
		s, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Save(ctx, summary); err != nil {
			return fmt.Errorf("failed to save run history: %w", err)
		}
	}

	return nil
}

// newProvider builds the configured backend
func newProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	switch cfg.Backend {
	case config.BackendBedrock:
		return bedrock.NewClient(ctx, &bedrock.ClientConfig{
			Region:      cfg.AWS.Region,
			AccessKey:   cfg.AWS.AccessKeyID,
			SecretKey:   cfg.AWS.SecretAccessKey,
			ModelID:     cfg.Model,
			Temperature: 0.0,
			Streaming:   cfg.Stream,
		})
	default:
		return openai.NewClient(&openai.ClientConfig{
			BaseURL:     cfg.URL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: 0.0,
			Streaming:   cfg.Stream,
			Timeout:     cfg.Timeout,
		}), nil
	}
}
