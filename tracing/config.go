package tracing

import "time"

// Config controls span export.
type Config struct {
	// Enabled installs an OTLP exporting tracer provider. When false a no-op provider is used
	// and request trace ids are generated locally.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the "host:port" of the OTLP/gRPC collector.
	Endpoint string `yaml:"endpoint" validate:"required_if=Enabled true"`
	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" default:"true"`

	// SampleRate is the fraction of root spans sampled, between 0 and 1.
	SampleRate float64 `yaml:"sample_rate" default:"1" validate:"gte=0,lte=1"`

	// Tags are added as resource attributes to every span.
	Tags map[string]string `yaml:"tags"`

	Batch BatchConfig `yaml:"batch"`
}

// BatchConfig tunes the batch span processor.
type BatchConfig struct {
	MaxQueueSize       int           `yaml:"max_queue_size"        default:"8192"`
	MaxExportBatchSize int           `yaml:"max_export_batch_size" default:"512"`
	Timeout            time.Duration `yaml:"timeout"               default:"5s"`
	ExportTimeout      time.Duration `yaml:"export_timeout"        default:"30s"`
}
