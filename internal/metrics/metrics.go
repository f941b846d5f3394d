/*
Package metrics provides Prometheus instrumentation for the mckp server.

# Available Metrics

Solver Metrics:
  - mckp_solves_total: Finished solves (counter)
    Labels: strategy, outcome (ok, infeasible, invalid_input, unknown_attribute, error)
  - mckp_solve_duration_seconds: Solve latency (histogram)
    Labels: strategy

API Metrics:
  - mckp_api_requests_total: HTTP requests (counter)
    Labels: method, endpoint, status
  - mckp_api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint

Result Cache Metrics:
  - mckp_result_cache_hits_total, mckp_result_cache_misses_total (counters)
  - mckp_result_cache_entries: Cached results (gauge)

Metrics register with the default Prometheus registry and are exposed by
promhttp.Handler at /metrics.
*/
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zzenonn/go-mckp"
)

var (
	// Solver Metrics
	SolvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mckp_solves_total",
			Help: "Total number of finished solves",
		},
		[]string{"strategy", "outcome"},
	)

	SolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mckp_solve_duration_seconds",
			Help:    "Duration of solves in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"strategy"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mckp_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mckp_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Result Cache Metrics
	ResultCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mckp_result_cache_hits_total",
			Help: "Total number of optimize requests served from the result cache",
		},
	)

	ResultCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mckp_result_cache_misses_total",
			Help: "Total number of optimize requests that had to be solved",
		},
	)

	ResultCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mckp_result_cache_entries",
			Help: "Current number of cached optimize results",
		},
	)
)

// SolveObserver records solver outcomes. It satisfies mckp.Observer.
type SolveObserver struct{}

var _ mckp.Observer = SolveObserver{}

// ObserveSolve records one finished solve.
func (SolveObserver) ObserveSolve(strategy mckp.Strategy, outcome string, elapsed time.Duration) {
	SolvesTotal.WithLabelValues(strategy.String(), outcome).Inc()
	SolveDuration.WithLabelValues(strategy.String()).Observe(elapsed.Seconds())
}

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCacheLookup counts a result cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		ResultCacheHits.Inc()
		return
	}
	ResultCacheMisses.Inc()
}

// SetCacheEntries updates the result cache size.
func SetCacheEntries(n int) {
	ResultCacheEntries.Set(float64(n))
}
