// Package middleware holds the fiber middlewares of the event hub API.
//
// Each constructor returns a server.Middleware with a fixed priority; the server
// registers them from the highest priority down, so the list order passed to
// server.NewHTTPServer does not matter:
//
//	1000  Recovery      panic to PANIC_RECOVERED
//	 900  Tracing       server span, X-Trace-Id header
//	 800  Timeout       request deadline, REQUEST_TIMEOUT
//	 700  MetaInject    trace id, client ip, user agent into the context
//	 600  Metrics       http_requests_total and friends
//	 500  Logger        one access log line
//	 400  ErrorHandler  JSON error envelope
//	 300  Auth          bearer token to company and actor
//
// Auth sits below the error handler so rejected requests are rendered and logged
// like any other failure.
package middleware
