package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AuthOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_operations_total",
			Help: "Total number of signup and login attempts",
		},
		[]string{"operation", "success"},
	)

	PostOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_operations_total",
			Help: "Total number of post operations",
		},
		[]string{"operation", "success"},
	)

	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of listing cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of listing cache misses",
		},
	)
)

type Provider interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	IncrementAuthOperations(operation string, success bool)
	IncrementPostOperations(operation string, success bool)
	IncrementCacheHits()
	IncrementCacheMisses()
}

type PrometheusProvider struct{}

func NewPrometheusProvider() Provider {
	return &PrometheusProvider{}
}

func (p *PrometheusProvider) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (p *PrometheusProvider) IncrementAuthOperations(operation string, success bool) {
	AuthOperationsTotal.WithLabelValues(operation, strconv.FormatBool(success)).Inc()
}

func (p *PrometheusProvider) IncrementPostOperations(operation string, success bool) {
	PostOperationsTotal.WithLabelValues(operation, strconv.FormatBool(success)).Inc()
}

func (p *PrometheusProvider) IncrementCacheHits() {
	CacheHitsTotal.Inc()
}

func (p *PrometheusProvider) IncrementCacheMisses() {
	CacheMissesTotal.Inc()
}

// Noop discards everything. Used by tests and tools.
type Noop struct{}

func (Noop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Noop) IncrementAuthOperations(string, bool)                 {}
func (Noop) IncrementPostOperations(string, bool)                 {}
func (Noop) IncrementCacheHits()                                  {}
func (Noop) IncrementCacheMisses()                                {}

func Handler() http.Handler {
	return promhttp.Handler()
}
