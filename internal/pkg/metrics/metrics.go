package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "clubhub",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clubhub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clubhub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	requestDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clubhub",
			Name:      "club_requests_decisions_total",
			Help:      "Club request decisions by outcome.",
		},
		[]string{"outcome"},
	)

	reconcileCorrections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "clubhub",
			Name:      "reconcile_corrections",
			Help:      "Counter rows corrected by the last reconciliation run.",
		},
	)

	reconcileRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clubhub",
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation runs by result.",
		},
		[]string{"result"},
	)
)

// Decision outcomes
const (
	OutcomeApproved         = "approved"
	OutcomeRejected         = "rejected"
	OutcomeWithdrawn        = "withdrawn"
	OutcomeLimitExceeded    = "limit_exceeded"
	OutcomeCapacityExceeded = "capacity_exceeded"
	OutcomeAlreadyMember    = "already_member"
	OutcomeAlreadyProcessed = "already_processed"
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		requestDecisions,
		reconcileCorrections,
		reconcileRuns,
	)
}

// Handler exposes the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request count, latency and in-flight requests per route template
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordDecision counts one club request decision
func RecordDecision(outcome string) {
	requestDecisions.WithLabelValues(outcome).Inc()
}

// RecordReconcile stores the number of rows the last reconciliation corrected
func RecordReconcile(corrected int64, err error) {
	if err != nil {
		reconcileRuns.WithLabelValues("error").Inc()
		return
	}
	reconcileRuns.WithLabelValues("ok").Inc()
	reconcileCorrections.Set(float64(corrected))
}
