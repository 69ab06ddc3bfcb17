package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	executionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reqsearch_executions_total",
			Help: "Total executed prompts by outcome",
		},
		[]string{"outcome"},
	)

	tokenRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reqsearch_token_refreshes_total",
			Help: "Total OAuth token refresh attempts by outcome",
		},
		[]string{"outcome"},
	)

	upstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reqsearch_upstream_request_seconds",
			Help:    "Latency of upstream API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

var (
	initialized bool
	initOnce    sync.Once
)

// Init registers all collectors. Must be called once at startup; the
// Record helpers are no-ops before that so library code stays usable in
// tests without a registry.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(executionsTotal, tokenRefreshesTotal, upstreamLatency)
		initialized = true
	})
}

// RecordExecution counts one executed prompt with the given outcome
// ("ok", "auth_error", "upstream_error", ...).
func RecordExecution(outcome string) {
	if !initialized {
		return
	}
	executionsTotal.WithLabelValues(outcome).Inc()
}

// RecordTokenRefresh counts one token refresh attempt ("ok" or "error").
func RecordTokenRefresh(outcome string) {
	if !initialized {
		return
	}
	tokenRefreshesTotal.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records the duration of one upstream call.
func ObserveUpstream(endpoint string, d time.Duration) {
	if !initialized {
		return
	}
	upstreamLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}
