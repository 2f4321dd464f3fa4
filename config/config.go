// Package config holds runtime configuration for the prompt dashboard core.
// Values load from the environment with sane defaults; functional options
// cover programmatic overrides.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Loofy147/Prompt-dashboard/utils"
)

type Config struct {
	// Rewriting collaborator. The endpoint must speak the rewrite wire
	// format (see rewrite.HTTPRewriter): a JSON POST carrying model,
	// instruction and text, answered with a JSON body holding the rewritten
	// text and optional usage. Provider APIs need an adapter in front.
	RewriterEndpoint string        `env:"REWRITER_ENDPOINT" envDefault:"http://localhost:8080/v1/rewrite"`
	RewriterAPIKey   string        `env:"REWRITER_API_KEY"`
	Model            string        `env:"REWRITER_MODEL" envDefault:"claude-sonnet-4-20250514"`
	Timeout          time.Duration `env:"REWRITER_TIMEOUT" envDefault:"30s"`
	Temperature      float64       `env:"REWRITER_TEMPERATURE" envDefault:"0.3"`
	MaxTokens        int           `env:"REWRITER_MAX_TOKENS" envDefault:"600"`

	// Retry policy for transient rewrite failures, applied inside a single
	// optimization iteration.
	MaxRetries int           `env:"REWRITER_MAX_RETRIES" envDefault:"3"`
	RetryDelay time.Duration `env:"REWRITER_RETRY_DELAY" envDefault:"2s"`

	// Token pricing used when the service does not report usage, and by the
	// cost estimator.
	CostPer1KInput  float64 `env:"REWRITER_COST_PER_1K_INPUT" envDefault:"0.003"`
	CostPer1KOutput float64 `env:"REWRITER_COST_PER_1K_OUTPUT" envDefault:"0.015"`

	// Outbound request pacing.
	RateLimitInterval time.Duration `env:"REWRITER_RATE_INTERVAL" envDefault:"1s"`
	RateLimitBurst    int           `env:"REWRITER_RATE_BURST" envDefault:"1"`

	// Bound on parallel variant generation and batch analysis.
	MaxParallel int `env:"PES_MAX_PARALLEL" envDefault:"5"`

	LogLevel utils.LogLevel `env:"PES_LOG_LEVEL" envDefault:"WARN"`
}

// LoadConfig builds a Config from the process environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewConfig returns a Config with defaults, bypassing the environment.
func NewConfig() *Config {
	return &Config{
		RewriterEndpoint:  "http://localhost:8080/v1/rewrite",
		Model:             "claude-sonnet-4-20250514",
		Timeout:           30 * time.Second,
		Temperature:       0.3,
		MaxTokens:         600,
		MaxRetries:        3,
		RetryDelay:        2 * time.Second,
		CostPer1KInput:    0.003,
		CostPer1KOutput:   0.015,
		RateLimitInterval: time.Second,
		RateLimitBurst:    1,
		MaxParallel:       5,
		LogLevel:          utils.LogLevelWarn,
	}
}

type ConfigOption func(*Config)

func SetRewriterEndpoint(endpoint string) ConfigOption {
	return func(c *Config) {
		c.RewriterEndpoint = endpoint
	}
}

func SetAPIKey(apiKey string) ConfigOption {
	return func(c *Config) {
		c.RewriterAPIKey = apiKey
	}
}

func SetModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

func SetTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

func SetTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

func SetMaxTokens(maxTokens int) ConfigOption {
	return func(c *Config) {
		if maxTokens < 1 {
			maxTokens = 1
		}
		c.MaxTokens = maxTokens
	}
}

func SetMaxRetries(maxRetries int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
	}
}

func SetRetryDelay(delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryDelay = delay
	}
}

func SetMaxParallel(n int) ConfigOption {
	return func(c *Config) {
		if n < 1 {
			n = 1
		}
		c.MaxParallel = n
	}
}

func SetLogLevel(level utils.LogLevel) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}
