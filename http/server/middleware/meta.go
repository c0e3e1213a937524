package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/eventhub/http/server"
	"github.com/rise-and-shine/eventhub/meta"
	"github.com/rise-and-shine/eventhub/tracing"
)

// NewMetaInjectMW creates a middleware that injects request metadata into the request context.
//
// It collects the trace id, client address, user agent and a few HTTP headers, and adds the
// service identity registered with meta.SetServiceInfo. Tenant and actor keys are left to
// the authentication middleware.
func NewMetaInjectMW() server.Middleware {
	return server.Middleware{
		Priority: 700,
		Handler: func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			traceID := meta.Find(ctx, meta.TraceID)
			if traceID == "" {
				traceID = tracing.GetStartingTraceID(ctx)
			}
			svc := meta.Service()

			ctx = meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{
				meta.TraceID:        traceID,
				meta.IPAddress:      c.IP(),
				meta.UserAgent:      c.Get(fiber.HeaderUserAgent),
				meta.RemoteAddr:     c.Context().RemoteAddr().String(),
				meta.Referer:        c.Get(fiber.HeaderReferer),
				meta.ServiceName:    svc.Name,
				meta.ServiceVersion: svc.Version,
				meta.AcceptLanguage: c.Get(fiber.HeaderAcceptLanguage),
			})
			c.SetUserContext(ctx)

			return c.Next()
		},
	}
}
