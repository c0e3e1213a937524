package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/eventhub/http/server"
	"github.com/rise-and-shine/eventhub/logger"
)

const CodePanicRecovered = "PANIC_RECOVERED"

// NewRecoveryMW turns a panic anywhere below it into a PANIC_RECOVERED internal error
// carrying the panic value and goroutine stack.
func NewRecoveryMW(log logger.Logger) server.Middleware {
	log = log.Named("middleware.recovery")

	return server.Middleware{
		Priority: 1000,
		Handler: func(c *fiber.Ctx) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				err = errx.New("panic recovered",
					errx.WithCode(CodePanicRecovered),
					errx.WithType(errx.T_Internal),
					errx.WithDetails(errx.D{
						"panic_message": fmt.Sprint(r),
						"stack_trace":   string(debug.Stack()),
					}),
				)
				log.WithContext(c.UserContext()).Errorx(err)
			}()

			return c.Next()
		},
	}
}
