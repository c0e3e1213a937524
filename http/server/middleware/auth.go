package middleware

import (
	"strings"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/eventhub/http/server"
	"github.com/rise-and-shine/eventhub/meta"
	"github.com/rise-and-shine/eventhub/token"
)

const (
	CodeUnauthenticated = "UNAUTHENTICATED"

	bearerPrefix = "Bearer "
)

// TokenVerifier verifies an access token and returns its claims.
type TokenVerifier interface {
	VerifyToken(raw string) (*token.Claims, error)
}

// NewAuthMW creates a middleware that authenticates requests with a bearer JWT.
//
// The token's subject becomes the actor, and its company_id claim the tenant every
// query of the request is scoped to. Both are stored in the request context and in
// fiber locals so that the logger middleware can report them.
func NewAuthMW(verifier TokenVerifier) server.Middleware {
	return server.Middleware{
		Priority: 300,
		Handler: func(c *fiber.Ctx) error {
			header := c.Get(fiber.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return errx.New(
					"missing bearer token",
					errx.WithCode(CodeUnauthenticated),
					errx.WithType(errx.T_Authentication),
				)
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
			if err != nil {
				return errx.Wrap(err)
			}

			data := map[meta.ContextKey]string{
				meta.CompanyID: claims.CompanyID.String(),
				meta.ActorID:   claims.Subject,
				meta.ActorType: claims.Actor(),
			}
			for k, v := range data {
				c.Locals(k, v)
			}
			c.SetUserContext(meta.InjectMetaToContext(c.UserContext(), data))

			return c.Next()
		},
	}
}
