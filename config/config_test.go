package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loofy147/Prompt-dashboard/utils"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "http://localhost:8080/v1/rewrite", cfg.RewriterEndpoint)
	assert.Empty(t, cfg.RewriterAPIKey)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5, cfg.MaxParallel)
	assert.Equal(t, utils.LogLevelWarn, cfg.LogLevel)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("REWRITER_ENDPOINT", "http://rewrite.internal/v2")
	t.Setenv("REWRITER_API_KEY", "secret")
	t.Setenv("REWRITER_TIMEOUT", "10s")
	t.Setenv("PES_LOG_LEVEL", "DEBUG")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://rewrite.internal/v2", cfg.RewriterEndpoint)
	assert.Equal(t, "secret", cfg.RewriterAPIKey)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, utils.LogLevelDebug, cfg.LogLevel)
}

func TestConfigOptions(t *testing.T) {
	cfg := NewConfig()
	for _, opt := range []ConfigOption{
		SetRewriterEndpoint("http://example.com/rewrite"),
		SetAPIKey("k"),
		SetModel("m"),
		SetMaxTokens(0),
		SetMaxParallel(0),
	} {
		opt(cfg)
	}

	assert.Equal(t, "http://example.com/rewrite", cfg.RewriterEndpoint)
	assert.Equal(t, "k", cfg.RewriterAPIKey)
	assert.Equal(t, "m", cfg.Model)
	assert.Equal(t, 1, cfg.MaxTokens, "max tokens clamps to at least 1")
	assert.Equal(t, 1, cfg.MaxParallel, "parallelism clamps to at least 1")
}
