package harness

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records a benchmark run.
type Metrics struct {
	phaseDuration  *prometheus.HistogramVec
	pointsInserted prometheus.Counter
	pointsRejected prometheus.Counter
	queryResults   *prometheus.HistogramVec
}

// NewMetrics creates the benchmark metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		phaseDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qtbench_phase_duration_seconds",
			Help:    "Duration of each benchmark phase",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 14),
		}, []string{"phase"}),
		pointsInserted: f.NewCounter(prometheus.CounterOpts{
			Name: "qtbench_points_inserted_total",
			Help: "Number of points accepted by the quadtree",
		}),
		pointsRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "qtbench_points_rejected_total",
			Help: "Number of points rejected by the quadtree",
		}),
		queryResults: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qtbench_query_result_points",
			Help:    "Number of points returned by a range query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}, []string{"method"}),
	}
}
