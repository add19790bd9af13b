package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Month load outcomes.
const (
	MonthLoadApplied = "applied"
	MonthLoadFailed  = "failed"
	MonthLoadStale   = "stale"
)

var (
	apiRequestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hris_admin",
		Subsystem: "api_client",
		Name:      "requests_total",
		Help:      "Number of remote API requests grouped by operation and outcome.",
	}, []string{"operation", "method", "outcome"})

	apiRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hris_admin",
		Subsystem: "api_client",
		Name:      "request_duration_seconds",
		Help:      "Latency of remote API requests per operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	monthLoadCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hris_admin",
		Subsystem: "attendance",
		Name:      "month_loads_total",
		Help:      "Month loads by outcome; stale loads were discarded because a newer load started.",
	}, []string{"outcome"})

	sessionsPurgedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hris_admin",
		Subsystem: "session",
		Name:      "expired_purged_total",
		Help:      "Number of expired dashboard sessions removed from storage.",
	})
)

func init() {
	prometheus.MustRegister(apiRequestCounter, apiRequestDuration, monthLoadCounter, sessionsPurgedCounter)
}

// RecordAPIRequest counts one remote call and observes its latency.
func RecordAPIRequest(operation, method, outcome string, elapsed time.Duration) {
	apiRequestCounter.WithLabelValues(operation, method, outcome).Inc()
	apiRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func RecordMonthLoad(outcome string) {
	monthLoadCounter.WithLabelValues(outcome).Inc()
}

func RecordSessionsPurged(n int64) {
	if n <= 0 {
		return
	}
	sessionsPurgedCounter.Add(float64(n))
}
