package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uniwork_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// PermissionChecks counts permission evaluations and their outcome (allowed|denied).
	PermissionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uniwork_permission_checks_total",
			Help: "Total number of workspace permission checks",
		},
		[]string{"action", "result"},
	)

	// TokenRefreshes counts drive provider token refresh attempts by provider and result.
	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uniwork_token_refreshes_total",
			Help: "Total number of OAuth access token refresh attempts",
		},
		[]string{"provider", "result"},
	)

	// AuditWriteFailures counts audit log writes that were dropped.
	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "uniwork_audit_write_failures_total",
			Help: "Total number of audit log entries that failed to persist",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uniwork_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
