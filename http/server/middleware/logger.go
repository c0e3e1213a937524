package middleware

import (
	"time"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/eventhub/http/server"
	"github.com/rise-and-shine/eventhub/logger"
)

// NewLoggerMW writes one access log line per request. The request meta, including the
// company and actor set by the auth middleware, comes from the user context.
// The level follows the status: error for 5xx, warn for 4xx and info otherwise.
func NewLoggerMW(log logger.Logger) server.Middleware {
	log = log.Named("middleware.logger")

	return server.Middleware{
		Priority: 500,
		Handler: func(c *fiber.Ctx) error {
			start := time.Now()
			err := c.Next()
			status := c.Response().StatusCode()

			fields := []any{
				"http_method", c.Method(),
				"http_route", c.Route().Path,
				"http_path", c.Path(),
				"http_status_code", status,
				"duration", time.Since(start),
				"request_size", c.Request().Header.ContentLength(),
				"response_size", len(c.Response().Body()),
			}
			if err != nil {
				e := errx.AsErrorX(err)
				fields = append(fields, "error", map[string]any{
					"code":    e.Code(),
					"type":    e.Type().String(),
					"message": e.Error(),
					"fields":  e.Fields(),
					"details": e.Details(),
				})
			}

			l := log.WithContext(c.UserContext()).With(fields...)
			switch {
			case status >= fiber.StatusInternalServerError:
				l.Error("request failed")
			case status >= fiber.StatusBadRequest:
				l.Warn("request rejected")
			default:
				l.Info("request processed")
			}
			return err
		},
	}
}
