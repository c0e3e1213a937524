package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/eventhub/http/server"
	"github.com/rise-and-shine/eventhub/meta"
	"github.com/rise-and-shine/eventhub/tracing"
)

// HeaderTraceID carries the request trace id back to the client.
const HeaderTraceID = "X-Trace-ID"

const tracerName = "eventhub/http"

// NewTracingMW opens a server span per request.
//
// A trace propagated in the request headers is continued. The span is renamed after the
// matched route once routing is done, and its trace id is exposed to handlers through
// the request meta and to clients through the X-Trace-ID header.
func NewTracingMW() server.Middleware {
	tracer := otel.Tracer(tracerName)

	return server.Middleware{
		Priority: 900,
		Handler: func(c *fiber.Ctx) error {
			ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), requestCarrier(c))
			ctx, span := tracer.Start(ctx, c.Method()+" /", trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			traceID := tracing.GetStartingTraceID(ctx)
			c.Set(HeaderTraceID, traceID)
			c.SetUserContext(meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{meta.TraceID: traceID}))

			err := c.Next()

			route := c.Route().Path
			if route != "" && route != "/" {
				span.SetName(c.Method() + " " + route)
			}
			status := c.Response().StatusCode()
			span.SetAttributes(
				semconv.HTTPMethodKey.String(c.Method()),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPURLKey.String(c.OriginalURL()),
				semconv.HTTPStatusCodeKey.Int(status),
			)

			switch {
			case err != nil:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			case status >= fiber.StatusInternalServerError:
				// the error handler already rendered the failure
				span.SetStatus(codes.Error, fiber.ErrInternalServerError.Message)
			}

			return err
		},
	}
}

func requestCarrier(c *fiber.Ctx) propagation.HeaderCarrier {
	carrier := propagation.HeaderCarrier{}
	c.Request().Header.VisitAll(func(k, v []byte) {
		carrier.Set(string(k), string(v))
	})
	return carrier
}
