// Package tracing sets up OpenTelemetry: a global tracer provider exporting over OTLP/gRPC,
// W3C trace context propagation, and the trace ids that correlate request logs.
package tracing

import (
	"context"

	"github.com/code19m/errx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/rise-and-shine/eventhub/meta"
)

// ShutdownFunc flushes pending spans and stops the exporter.
type ShutdownFunc func(context.Context) error

// InitGlobalTracer installs the global tracer provider and W3C propagators.
// Spans carry the service name and version registered in meta.
func InitGlobalTracer(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
		sdktrace.WithBatcher(exporter,
			sdktrace.WithMaxQueueSize(cfg.Batch.MaxQueueSize),
			sdktrace.WithMaxExportBatchSize(cfg.Batch.MaxExportBatchSize),
			sdktrace.WithBatchTimeout(cfg.Batch.Timeout),
			sdktrace.WithExportTimeout(cfg.Batch.ExportTimeout),
		),
		sdktrace.WithResource(newResource(cfg.Tags)),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error { return errx.Wrap(tp.Shutdown(ctx)) }, nil
}

func newExporter(ctx context.Context, cfg Config) (*otlptrace.Exporter, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"endpoint": cfg.Endpoint}))
	}
	return exporter, nil
}

func newResource(tags map[string]string) *resource.Resource {
	service := meta.Service()
	attrs := []attribute.KeyValue{
		semconv.ServiceName(service.Name),
		semconv.ServiceVersion(service.Version),
	}
	for k, v := range tags {
		attrs = append(attrs, attribute.String(k, v))
	}
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}
