package query

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opNameMatch  = "name_match"
	opList       = "list"
	opCompletion = "completion"
)

// Metrics holds the collectors updated by executors.  A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// queries counts queries by operation.
	queries *prometheus.CounterVec
	// errors counts rejected queries by operation.
	errors *prometheus.CounterVec
	// results observes the number of results by operation.
	results *prometheus.HistogramVec
	// latency observes query latency by operation.
	latency *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "websymbols",
			Subsystem: "query",
			Name:      "queries_total",
			Help:      "Total symbol queries by operation",
		}, []string{"op"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "websymbols",
			Subsystem: "query",
			Name:      "errors_total",
			Help:      "Total failed symbol queries by operation",
		}, []string{"op"}),
		results: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "websymbols",
			Subsystem: "query",
			Name:      "results",
			Help:      "Number of results returned by operation",
			Buckets:   []float64{0, 1, 2, 5, 10, 50, 100, 500},
		}, []string{"op"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "websymbols",
			Subsystem: "query",
			Name:      "latency_seconds",
			Help:      "Symbol query latency by operation",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"op"}),
	}
}

func (m *Metrics) observe(op string, start time.Time, n int, err error) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(op).Inc()
	if err != nil {
		m.errors.WithLabelValues(op).Inc()
		return
	}
	m.results.WithLabelValues(op).Observe(float64(n))
	m.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
