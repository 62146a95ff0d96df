package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trackit_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// CacheRequests counts request-cache lookups by resource and outcome (hit|miss|failed).
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trackit_cache_requests_total",
			Help: "Total number of request-cache lookups",
		},
		[]string{"resource", "outcome"},
	)

	// CacheInvalidations counts bulk invalidations performed after successful mutations.
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trackit_cache_invalidations_total",
			Help: "Total number of resource cache invalidations",
		},
		[]string{"resource"},
	)

	// CacheKeys reports the key count seen in the backing store.
	CacheKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trackit_cache_keys",
			Help: "Number of keys reported by the cache store",
		},
	)

	// CacheMemoryBytes reports the memory the backing store attributes to cached data.
	CacheMemoryBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trackit_cache_memory_bytes",
			Help: "Memory used by the cache store in bytes",
		},
	)

	// CacheKeyspaceHitRatio reports the store's own keyspace hit ratio (0..1).
	CacheKeyspaceHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trackit_cache_keyspace_hit_ratio",
			Help: "Server-side keyspace hit ratio reported by the cache store",
		},
	)

	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trackit_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)
)
