// Package monitoring provides Prometheus metrics for the reconciliation core
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the counters exercised by the cache service, the
// provider adapter and the HTTP layer. A dedicated registry keeps tests
// free of global-registration collisions.
type Metrics struct {
	Registry *prometheus.Registry

	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheStale         prometheus.Counter
	CacheWriteFailures prometheus.Counter

	ProviderCalls    *prometheus.CounterVec
	ProviderFailures *prometheus.CounterVec

	AdjustmentIterations prometheus.Histogram
	LookupFallbacks      prometheus.Counter
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wodplate_nutrition_cache_hits_total",
			Help: "Fresh profile cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wodplate_nutrition_cache_misses_total",
			Help: "Profile cache misses",
		}),
		CacheStale: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wodplate_nutrition_cache_stale_total",
			Help: "Profile cache entries past the staleness threshold",
		}),
		CacheWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wodplate_nutrition_cache_write_failures_total",
			Help: "Failed best-effort profile upserts",
		}),
		ProviderCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wodplate_provider_calls_total",
			Help: "Nutrition provider calls by operation",
		}, []string{"operation"}),
		ProviderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wodplate_provider_failures_total",
			Help: "Nutrition provider failures by operation",
		}, []string{"operation"}),
		AdjustmentIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wodplate_adjustment_iterations",
			Help:    "Adjustment loop iterations per day",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		}),
		LookupFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wodplate_lookup_fallbacks_total",
			Help: "Ingredients that retained their original macro estimate",
		}),
	}

	registry.MustRegister(
		m.CacheHits, m.CacheMisses, m.CacheStale, m.CacheWriteFailures,
		m.ProviderCalls, m.ProviderFailures,
		m.AdjustmentIterations, m.LookupFallbacks,
	)

	return m
}
