package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spf13/cast"

	"github.com/rise-and-shine/eventhub/http/server"
)

// NewMetricsMW creates a middleware recording request counts, durations and the
// number of requests in flight on reg. Requests are labelled by route pattern,
// never by raw path, so ids do not blow up cardinality.
func NewMetricsMW(reg prometheus.Registerer) server.Middleware {
	factory := promauto.With(reg)

	requests := factory.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})

	duration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "route"})

	inFlight := factory.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Number of HTTP requests currently being processed.",
	})

	return server.Middleware{
		Priority: 600,
		Handler: func(c *fiber.Ctx) error {
			start := time.Now()
			inFlight.Inc()
			defer inFlight.Dec()

			err := c.Next()

			route := c.Route().Path
			status := cast.ToString(c.Response().StatusCode())
			requests.WithLabelValues(c.Method(), route, status).Inc()
			duration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())

			return err
		},
	}
}
