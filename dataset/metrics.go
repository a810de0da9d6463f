package dataset

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricCacheHits           = "cache_hits_total"
	MetricCacheMisses         = "cache_misses_total"
	MetricDerivedComputations = "derived_computations_total"
	MetricDerivedSeconds      = "derived_compute_seconds"

	metricsNamespace = "fieldset"
)

// metrics is nil when no registerer is configured; every method is nil-safe.
type metrics struct {
	hits         prometheus.Counter
	misses       prometheus.Counter
	computations *prometheus.CounterVec
	duration     prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil //nolint: nilnil
	}

	m := &metrics{}

	hits, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      MetricCacheHits,
		Help:      "Number of derived field requests served from the cache.",
	}))
	if err != nil {
		return nil, err
	}
	m.hits = hits.(prometheus.Counter)

	misses, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      MetricCacheMisses,
		Help:      "Number of derived field requests that required a computation.",
	}))
	if err != nil {
		return nil, err
	}
	m.misses = misses.(prometheus.Counter)

	computations, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      MetricDerivedComputations,
		Help:      "Number of derived field computations by outcome.",
	}, []string{"status"}))
	if err != nil {
		return nil, err
	}
	m.computations = computations.(*prometheus.CounterVec)

	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      MetricDerivedSeconds,
		Help:      "Time spent computing derived fields, dependencies included.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	}))
	if err != nil {
		return nil, err
	}
	m.duration = duration.(prometheus.Histogram)

	return m, nil
}

// register returns the collector already registered under the same
// descriptor, so several datasets can share one registerer.
func register(reg prometheus.Registerer, c prometheus.Collector) (prometheus.Collector, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector, nil
		}

		return nil, err
	}

	return c, nil
}

func (m *metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *metrics) computed(err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	m.computations.WithLabelValues(status).Inc()
	m.duration.Observe(elapsed.Seconds())
}
