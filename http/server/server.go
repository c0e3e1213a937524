// Package server runs the fiber application of the event hub API: priority ordered
// middlewares, the JSON error envelope and graceful shutdown.
package server

import (
	"context"
	"net"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
)

// HTTPServer is a fiber app bound to one listen address.
type HTTPServer struct {
	app *fiber.App
	cfg Config
}

// NewHTTPServer builds the app and registers mws by descending priority.
// Errors that escape every middleware are rendered like those of the error middleware.
func NewHTTPServer(cfg Config, mws []Middleware) *HTTPServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:    true,
		Immutable:                true,
		EnableSplittingOnParsers: true,
		BodyLimit:                cfg.BodyLimit,
		ReadTimeout:              cfg.ReadTimeout,
		WriteTimeout:             cfg.WriteTimeout,
		IdleTimeout:              cfg.IdleTimeout,
		ErrorHandler:             customErrorHandler(cfg.HideErrorDetails),
	})
	applyMiddlewares(app, mws)

	return &HTTPServer{app: app, cfg: cfg}
}

// RegisterRouter lets register add routes to the app.
func (s *HTTPServer) RegisterRouter(register func(r fiber.Router)) {
	register(s.app)
}

// App exposes the fiber app, e.g. for app.Test.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

// Serve accepts connections on ln until ctx is done, then drains in-flight
// requests for at most ShutdownTimeout.
func (s *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.app.Listener(ln) }()

	select {
	case err := <-errCh:
		return errx.Wrap(err)
	case <-ctx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(stopCtx); err != nil {
		return errx.Wrap(err)
	}
	return errx.Wrap(<-errCh)
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *HTTPServer) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(errx.D{"address": s.cfg.Address()}))
	}
	return s.Serve(ctx, ln)
}
