// Package metrics defines and registers all custom Prometheus metrics for the
// portal. It is the single source of truth for metric names, labels, and help
// strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed by the /metrics route. Core services, the audit
// queue and the HTTP layer all record into it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Login metrics ─────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login requests by how they ended.
// Label:
//   - outcome: "success", "missing_credentials", "invalid_credentials" or "store_unavailable"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login requests, by outcome.",
	},
	[]string{"outcome"},
)

// LoginSuccessTotal counts successful logins by resolved role.
var LoginSuccessTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_success_total",
		Help:      "Total number of successful logins, by role.",
	},
	[]string{"role"},
)

// StoreLookupDuration measures a single credential store lookup.
// Labels:
//   - store: "admin" or "karyawan"
//   - result: "hit", "miss" or "error"
var StoreLookupDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_lookup_duration_seconds",
		Help:      "Duration of a credential store lookup.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"store", "result"},
)

// ── Guard metrics ─────────────────────────────────────────────────────────────

// GuardDenialsTotal counts requests redirected away by a role guard.
var GuardDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_denials_total",
		Help:      "Total number of requests denied by a role guard, by required role.",
	},
	[]string{"required_role"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks pending attempts in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of login attempts pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts attempts dropped because a worker channel was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of login attempts dropped before reaching the audit store.",
	},
)
