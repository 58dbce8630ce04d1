package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opGet    = "get"
	opSet    = "set"
	opDelete = "delete"
	opScan   = "scan"
)

// Metrics holds Prometheus collectors for cache activity.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	hits           prometheus.Counter
	misses         prometheus.Counter
	decodeFailures prometheus.Counter
	deletedKeys    prometheus.Counter
	storeErrors    *prometheus.CounterVec
	computeSeconds *prometheus.HistogramVec
}

// NewMetrics creates the cache collectors under namespace and registers them with reg.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	m, err := cache.NewMetrics("entitycache", reg)
//	c := cache.New(s, cache.WithMetrics(m))
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache lookups served from the store",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache lookups that found no usable entry",
		}),
		decodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "decode_failures_total",
			Help:      "Cached entries that could not be decoded and were treated as misses",
		}),
		deletedKeys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "deleted_keys_total",
			Help:      "Keys removed by explicit invalidation",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "store_errors_total",
			Help:      "Store operations that failed",
		}, []string{"op"}),
		computeSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "compute_duration_seconds",
			Help:      "Duration of compute calls run on cache misses",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}

	for _, col := range []prometheus.Collector{
		m.hits, m.misses, m.decodeFailures, m.deletedKeys, m.storeErrors, m.computeSeconds,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *Metrics) decodeFailure() {
	if m != nil {
		m.decodeFailures.Inc()
	}
}

func (m *Metrics) deleted(n int64) {
	if m != nil && n > 0 {
		m.deletedKeys.Add(float64(n))
	}
}

func (m *Metrics) storeError(op string) {
	if m != nil {
		m.storeErrors.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) observeCompute(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.computeSeconds.WithLabelValues(status).Observe(d.Seconds())
}
