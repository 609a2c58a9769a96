package uuidrange

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the service configuration.  It
// can be populated from YAML or JSON; the zero value inherits the package
// defaults for every nested field.
type Config struct {
	Engine  EngineConfig  `json:"engine" yaml:"engine"`
	Output  OutputConfig  `json:"output" yaml:"output"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
}

// EngineConfig tunes the generation workers.
type EngineConfig struct {
	// BatchSize is the number of UUIDs encoded between cancellation checks
	// and progress updates.
	BatchSize int `json:"batchSize" yaml:"batchSize"`
	// QueueSize is the number of encoded batches buffered between the
	// enumerator and the sink writer.
	QueueSize int `json:"queueSize" yaml:"queueSize"`
}

// OutputConfig locates the generated artifacts.
type OutputConfig struct {
	// BaseURL is the afs location output streams are written under, e.g.
	// file:///var/lib/uuidrange or mem://localhost/uuidrange.
	BaseURL string `json:"baseURL" yaml:"baseURL"`
}

// TracingConfig enables the OpenTelemetry stdout/file exporter.
type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	ServiceName    string `json:"serviceName" yaml:"serviceName"`
	ServiceVersion string `json:"serviceVersion" yaml:"serviceVersion"`
	OutputFile     string `json:"outputFile" yaml:"outputFile"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			BatchSize: 1000,
			QueueSize: 16,
		},
		Output: OutputConfig{
			BaseURL: path.Join(os.TempDir(), "uuidrange"),
		},
		Tracing: TracingConfig{
			ServiceName:    "uuidrange",
			ServiceVersion: "0.1.0",
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Engine.BatchSize <= 0 {
		return fmt.Errorf("engine.batchSize must be > 0")
	}
	if c.Engine.QueueSize <= 0 {
		return fmt.Errorf("engine.queueSize must be > 0")
	}
	if c.Output.BaseURL == "" {
		return fmt.Errorf("output.baseURL cannot be empty")
	}
	return nil
}

// LoadConfig reads a YAML config from any afs-supported URL and validates
// it.  Unset fields keep their defaults.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
