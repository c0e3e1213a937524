package imagefs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rise-and-shine/eventhub/imagefs/types"
)

// Metrics records the asset lifecycle in Prometheus. A nil *Metrics records nothing.
type Metrics struct {
	transitions *prometheus.CounterVec
	derivation  prometheus.Histogram
	uploadSize  prometheus.Histogram
}

// NewMetrics registers the pipeline metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventhub",
			Subsystem: "assets",
			Name:      "transitions_total",
			Help:      "Asset lifecycle states reached, by state.",
		}, []string{"state"}),
		derivation: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eventhub",
			Subsystem: "assets",
			Name:      "derivation_duration_seconds",
			Help:      "Time spent deriving the compressed and miniature variants.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		uploadSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eventhub",
			Subsystem: "assets",
			Name:      "upload_size_bytes",
			Help:      "Size of accepted uploads.",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 6), //nolint:mnd // 16 KiB .. 16 MiB
		}),
	}
}

func (m *Metrics) transition(state types.State) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(state)).Inc()
}

func (m *Metrics) derived(took time.Duration) {
	if m == nil {
		return
	}
	m.derivation.Observe(took.Seconds())
}

func (m *Metrics) staged(size int64) {
	if m == nil {
		return
	}
	m.uploadSize.Observe(float64(size))
}
