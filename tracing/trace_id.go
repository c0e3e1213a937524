package tracing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// GetStartingTraceID returns the hex trace id of the span carried by ctx.
// Contexts without a valid span get a fresh "man-" prefixed UUID instead.
func GetStartingTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return "man-" + uuid.NewString()
}
