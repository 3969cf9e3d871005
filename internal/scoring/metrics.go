package scoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the aggregator.
type Metrics struct {
	RecomputeTotal    *prometheus.CounterVec
	RecomputeDuration prometheus.Histogram
	ZeroWeightTotal   prometheus.Counter
}

// NewMetrics creates and registers the aggregator collectors on the default
// registry. Call at most once per process.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecomputeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gradebook_recompute_total",
				Help: "Average score recomputations by result",
			},
			[]string{"result"},
		),
		RecomputeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gradebook_recompute_duration_seconds",
				Help:    "Duration of one read-compute-write recomputation",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
		),
		ZeroWeightTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gradebook_recompute_zero_weight_total",
				Help: "Recomputations where corrections existed but total weight was zero",
			},
		),
	}
	prometheus.MustRegister(m.RecomputeTotal, m.RecomputeDuration, m.ZeroWeightTotal)
	return m
}
