package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/eventhub/http/server"
)

// NewErrorHandlerMW renders errors returned by handlers as the JSON error envelope.
// The error keeps propagating so that the logger and tracing middlewares record it.
// Responses that already carry an error status are not rewritten.
func NewErrorHandlerMW(hideDetails bool) server.Middleware {
	return server.Middleware{
		Priority: 400,
		Handler: func(c *fiber.Ctx) error {
			err := c.Next()
			if err == nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
				return err
			}
			return server.WriteErrorResponse(c, err, hideDetails)
		},
	}
}
