package uuidrange

import (
	"github.com/viant/afs"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/uuidlab/uuidrange/runtime/generation"
	"github.com/uuidlab/uuidrange/tracing"
)

// Option customizes the Service facade.
type Option func(s *Service)

// WithConfig replaces the whole configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithTaskRegistry sets the task registry; defaults to the in-memory store.
func WithTaskRegistry(registry generation.Registry) Option {
	return func(s *Service) { s.registry = registry }
}

// WithStorage sets the afs service used for output streams, e.g. an
// embedded or mem:// backed one in tests.
func WithStorage(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithOutputBaseURL sets the location output streams are written under.
func WithOutputBaseURL(baseURL string) Option {
	return func(s *Service) { s.cfg.Output.BaseURL = baseURL }
}

// WithBatchSize sets the cancellation-check/progress cadence of the workers.
func WithBatchSize(n int) Option {
	return func(s *Service) { s.cfg.Engine.BatchSize = n }
}

// WithQueueSize sets the batch buffer between enumerator and sink writer.
func WithQueueSize(n int) Option {
	return func(s *Service) { s.cfg.Engine.QueueSize = n }
}

// WithTracing configures OpenTelemetry tracing.  If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the given file.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry with a custom SpanExporter
// (OTLP, Jaeger, Zipkin, ...).
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
