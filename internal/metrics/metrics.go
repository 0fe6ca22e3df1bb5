package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the gateway's Prometheus collectors
type Metrics struct {
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheShared        prometheus.Counter
	CacheInvalidations prometheus.Counter
	CacheEntries       prometheus.Gauge

	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg. A nil registerer
// leaves them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Catalog cache lookups answered from a retained entry",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Catalog cache lookups that started an upstream fetch",
		}),
		CacheShared: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_cache_shared_total",
			Help: "Catalog cache lookups that joined an in-flight fetch",
		}),
		CacheInvalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_cache_invalidated_entries_total",
			Help: "Catalog cache entries removed by invalidation",
		}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_cache_entries",
			Help: "Catalog cache entries currently retained",
		}),
		UpstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_upstream_requests_total",
				Help: "Requests sent to the remote catalog service",
			},
			[]string{"method", "outcome"},
		),
		UpstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_upstream_request_duration_seconds",
				Help:    "Latency of requests to the remote catalog service",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.CacheHits,
			m.CacheMisses,
			m.CacheShared,
			m.CacheInvalidations,
			m.CacheEntries,
			m.UpstreamRequests,
			m.UpstreamLatency,
		)
	}

	return m
}
