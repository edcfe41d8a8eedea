// ABOUTME: Prometheus metrics for upstream fetches, retries and the response cache.
// ABOUTME: A nil *Metrics is valid and records nothing.

package srclient

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects client metrics. It is safe for concurrent use.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
	revalidated     *prometheus.CounterVec
	staleServed     *prometheus.CounterVec
	failuresTotal   *prometheus.CounterVec
	cacheEntries    prometheus.Gauge
	evictionsTotal  prometheus.Counter
}

// NewMetrics registers the client metrics on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sr_upstream_requests_total",
				Help: "Upstream HTTP attempts by endpoint and status code",
			},
			[]string{"endpoint", "status_code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sr_fetch_duration_seconds",
				Help:    "Duration of logical fetches including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "outcome"},
		),
		retriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sr_upstream_retries_total",
				Help: "Retry attempts by endpoint and attempt number",
			},
			[]string{"endpoint", "attempt"},
		),
		revalidated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sr_cache_revalidations_total",
				Help: "304 Not Modified responses served from cache",
			},
			[]string{"endpoint"},
		),
		staleServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sr_cache_stale_served_total",
				Help: "Failed fetches masked by cached data",
			},
			[]string{"endpoint"},
		),
		failuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sr_fetch_failures_total",
				Help: "Fetches that failed without a cached fallback",
			},
			[]string{"endpoint", "kind"},
		),
		cacheEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sr_cache_entries",
			Help: "Current number of cached responses",
		}),
		evictionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "sr_cache_evictions_total",
			Help: "Entries evicted to respect the cache bound",
		}),
	}
}

func (m *Metrics) recordAttempt(endpoint string, status int) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requestsTotal.WithLabelValues(endpointLabel(endpoint), code).Inc()
}

func (m *Metrics) recordRetry(endpoint string, attempt int) {
	if m == nil {
		return
	}
	m.retriesTotal.WithLabelValues(endpointLabel(endpoint), strconv.Itoa(attempt)).Inc()
}

func (m *Metrics) recordFetch(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(endpointLabel(endpoint), outcome).Observe(d.Seconds())
}

func (m *Metrics) recordRevalidated(endpoint string) {
	if m == nil {
		return
	}
	m.revalidated.WithLabelValues(endpointLabel(endpoint)).Inc()
}

func (m *Metrics) recordStale(endpoint string) {
	if m == nil {
		return
	}
	m.staleServed.WithLabelValues(endpointLabel(endpoint)).Inc()
}

func (m *Metrics) recordFailure(endpoint, kind string) {
	if m == nil {
		return
	}
	m.failuresTotal.WithLabelValues(endpointLabel(endpoint), kind).Inc()
}

func (m *Metrics) recordCacheSize(size int) {
	if m == nil {
		return
	}
	m.cacheEntries.Set(float64(size))
}

func (m *Metrics) recordEviction() {
	if m == nil {
		return
	}
	m.evictionsTotal.Inc()
}

// endpointLabel collapses numeric path segments so IDs do not explode label
// cardinality: "programs/4540" becomes "programs/:id".
func endpointLabel(endpoint string) string {
	segments := strings.Split(strings.Trim(endpoint, "/"), "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := strconv.ParseUint(seg, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
