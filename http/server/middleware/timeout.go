package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/eventhub/http/server"
)

const CodeRequestTimeout = server.CodeRequestTimeout

// NewTimeoutMW bounds the request context by d. Bare context errors caused by the
// deadline are rendered as REQUEST_TIMEOUT. A non-positive d leaves the context untouched.
func NewTimeoutMW(d time.Duration) server.Middleware {
	return server.Middleware{
		Priority: 800,
		Handler: func(c *fiber.Ctx) error {
			if d <= 0 {
				return c.Next()
			}

			ctx, cancel := context.WithTimeout(c.UserContext(), d)
			defer cancel()
			c.SetUserContext(ctx)

			return c.Next()
		},
	}
}
