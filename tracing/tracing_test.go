package tracing_test

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/rise-and-shine/eventhub/tracing"
)

var hexTraceID = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestDisabledTracerUsesManualTraceIDs(t *testing.T) {
	shutdown, err := tracing.InitGlobalTracer(t.Context(), tracing.Config{})
	require.NoError(t, err)
	require.NoError(t, shutdown(t.Context()))

	ctx, span := otel.Tracer("test").Start(t.Context(), "request")
	defer span.End()

	first := tracing.GetStartingTraceID(ctx)
	second := tracing.GetStartingTraceID(ctx)
	assert.True(t, strings.HasPrefix(first, "man-"), first)
	assert.NotEqual(t, first, second)
}

func TestEnabledTracerUsesSpanTraceIDs(t *testing.T) {
	shutdown, err := tracing.InitGlobalTracer(t.Context(), tracing.Config{
		Enabled:    true,
		Endpoint:   "127.0.0.1:4317",
		Insecure:   true,
		SampleRate: 0,
		Batch: tracing.BatchConfig{
			MaxQueueSize:       16,
			MaxExportBatchSize: 16,
			Timeout:            time.Second,
			ExportTimeout:      time.Second,
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = shutdown(ctx)
		_, _ = tracing.InitGlobalTracer(ctx, tracing.Config{})
	})

	ctx, span := otel.Tracer("test").Start(t.Context(), "request")
	defer span.End()

	traceID := tracing.GetStartingTraceID(ctx)
	assert.Regexp(t, hexTraceID, traceID)
	assert.Equal(t, traceID, tracing.GetStartingTraceID(ctx))
}
