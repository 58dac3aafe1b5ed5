package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Backend names accepted by the --backend flag
const (
	BackendOpenAI  = "openai"
	BackendBedrock = "bedrock"
)

// Config represents the complete configuration for one benchmark run
type Config struct {
	URL     string `mapstructure:"url"`
	Model   string `mapstructure:"model"`
	Backend string `mapstructure:"backend"`
	APIKey  string `mapstructure:"api_key"`

	Workers      int `mapstructure:"workers"`
	Requests     int `mapstructure:"requests"`
	PromptTokens int `mapstructure:"prompt_tokens"`
	MaxTokens    int `mapstructure:"max_tokens"`

	WarmupCalls     int `mapstructure:"warmup_calls"`
	SequentialCalls int `mapstructure:"sequential_calls"`

	Stream  bool          `mapstructure:"stream"`
	Rate    float64       `mapstructure:"rate"`
	Timeout time.Duration `mapstructure:"timeout"`

	ReportFile string `mapstructure:"report"`
	DBPath     string `mapstructure:"db"`
	LogLevel   string `mapstructure:"log_level"`

	AWS AWSConfig `mapstructure:"aws"`
}

// AWSConfig contains credentials for the bedrock backend. Empty keys fall
// back to the default credential chain.
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// SetDefaults registers default values on the given viper instance
func SetDefaults(v *viper.Viper) {
	v.SetDefault("url", "http://127.0.0.1:30000")
	v.SetDefault("model", "Qwen/Qwen2.5-1.5B-Instruct")
	v.SetDefault("backend", BackendOpenAI)
	v.SetDefault("workers", 8)
	v.SetDefault("requests", 50)
	v.SetDefault("prompt_tokens", 50)
	v.SetDefault("max_tokens", 100)
	v.SetDefault("warmup_calls", 5)
	v.SetDefault("sequential_calls", 5)
	v.SetDefault("rate", 0.0)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("log_level", "info")
	v.SetDefault("aws.region", "us-east-1")
}

// Load unmarshals and validates the configuration from a viper instance.
// An optional config file path is read first; bound flags win over it.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Backend != BackendOpenAI && c.Backend != BackendBedrock {
		return fmt.Errorf("backend must be %q or %q", BackendOpenAI, BackendBedrock)
	}
	if c.Backend == BackendOpenAI && c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.Requests <= 0 {
		return fmt.Errorf("requests must be positive")
	}
	if c.PromptTokens <= 0 {
		return fmt.Errorf("prompt_tokens must be positive")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.WarmupCalls < 0 {
		return fmt.Errorf("warmup_calls must not be negative")
	}
	if c.SequentialCalls < 0 {
		return fmt.Errorf("sequential_calls must not be negative")
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate must not be negative")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.Backend == BackendBedrock && c.AWS.Region == "" {
		return fmt.Errorf("aws.region is required for the bedrock backend")
	}
	return nil
}
