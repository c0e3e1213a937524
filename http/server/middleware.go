package server

import (
	"cmp"
	"slices"

	"github.com/gofiber/fiber/v2"
)

// Middleware is a fiber handler registered at a priority. Higher priorities run first,
// so a Recovery at 1000 wraps everything registered below it.
type Middleware struct {
	Priority int
	Handler  fiber.Handler
}

// applyMiddlewares registers mws on app from highest to lowest priority.
// Equal priorities keep their slice order and nil handlers are skipped.
// The caller's slice is left untouched.
func applyMiddlewares(app *fiber.App, mws []Middleware) {
	ordered := slices.Clone(mws)
	slices.SortStableFunc(ordered, func(a, b Middleware) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	for _, mw := range ordered {
		if mw.Handler != nil {
			app.Use(mw.Handler)
		}
	}
}
