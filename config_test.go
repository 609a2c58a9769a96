package uuidrange

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 1000, cfg.Engine.BatchSize)
	assert.Equal(t, 16, cfg.Engine.QueueSize)
	assert.NotEmpty(t, cfg.Output.BaseURL)
	assert.Equal(t, "uuidrange", cfg.Tracing.ServiceName)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(*Config)
	}{
		{description: "zero batch size", mutate: func(c *Config) { c.Engine.BatchSize = 0 }},
		{description: "negative queue size", mutate: func(c *Config) { c.Engine.QueueSize = -1 }},
		{description: "empty base url", mutate: func(c *Config) { c.Output.BaseURL = "" }},
	}
	for _, tc := range testCases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		assert.Error(t, cfg.Validate(), tc.description)
	}

	var nilConfig *Config
	assert.NoError(t, nilConfig.Validate())
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	URL := "mem://localhost/uuidrange-config/config.yaml"
	require.NoError(t, fs.Upload(ctx, URL, 0o644, strings.NewReader(`
engine:
  batchSize: 500
  queueSize: 8
output:
  baseURL: mem://localhost/uuidrange-out
tracing:
  enabled: true
  serviceName: custom
`)))

	cfg, err := LoadConfig(ctx, URL)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Engine.BatchSize)
	assert.Equal(t, 8, cfg.Engine.QueueSize)
	assert.Equal(t, "mem://localhost/uuidrange-out", cfg.Output.BaseURL)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "custom", cfg.Tracing.ServiceName)
	// Unset fields keep their defaults.
	assert.Equal(t, "0.1.0", cfg.Tracing.ServiceVersion)
}

func TestNewInitializesTracingFromConfig(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "traces.json")
	cfg := DefaultConfig()
	cfg.Tracing.Enabled = true
	cfg.Tracing.OutputFile = outputFile

	s := New(
		WithConfig(cfg),
		WithStorage(afs.New()),
		WithOutputBaseURL("mem://localhost/uuidrange-tracing-config"),
	)
	defer s.Shutdown()

	// Init creates the exporter file up front.
	_, err := os.Stat(outputFile)
	assert.NoError(t, err)
}

func TestLoadConfigInvalid(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()

	_, err := LoadConfig(ctx, "mem://localhost/uuidrange-config/missing.yaml")
	assert.Error(t, err)

	URL := "mem://localhost/uuidrange-config/bad.yaml"
	require.NoError(t, fs.Upload(ctx, URL, 0o644, strings.NewReader("engine:\n  batchSize: -1\n")))
	_, err = LoadConfig(ctx, URL)
	assert.Error(t, err)

	URL = "mem://localhost/uuidrange-config/garbage.yaml"
	require.NoError(t, fs.Upload(ctx, URL, 0o644, strings.NewReader("{{not yaml")))
	_, err = LoadConfig(ctx, URL)
	assert.Error(t, err)
}
