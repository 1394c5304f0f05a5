// Package metrics declares the Prometheus series exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "site_workflow"

// ─── HTTP ───────────────────────────────────────────────────────────────────

// HTTPRequests counts served requests by method, route template and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "HTTP requests by method, route and status code.",
}, []string{"method", "route", "status"})

// HTTPDuration observes request latency by route template.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by method and route.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

// ─── Task lifecycle ─────────────────────────────────────────────────────────

// TaskTransitions counts lifecycle events by event and outcome
// (ok, denied, invalid, conflict, error).
var TaskTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "tasks",
	Name:      "transitions_total",
	Help:      "Task lifecycle events by event and outcome.",
}, []string{"event", "outcome"})

// TransitionDuration observes end-to-end lifecycle operation latency.
var TransitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "tasks",
	Name:      "transition_duration_seconds",
	Help:      "Latency of task lifecycle operations.",
	Buckets:   prometheus.DefBuckets,
}, []string{"event"})

// ─── Settlement ─────────────────────────────────────────────────────────────

// LedgerEntriesWritten counts ledger entries appended by category.
var LedgerEntriesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "settlement",
	Name:      "ledger_entries_total",
	Help:      "Ledger entries appended, by category.",
}, []string{"category"})

// SettlementsPending counts approvals committed without ledger entries.
var SettlementsPending = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "settlement",
	Name:      "pending_total",
	Help:      "Approvals committed with settlement left for reconciliation.",
})

// SettlementsReconciled counts tasks settled by a reconciliation pass.
var SettlementsReconciled = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "settlement",
	Name:      "reconciled_total",
	Help:      "Tasks processed by settlement reconciliation, by outcome.",
}, []string{"outcome"})

// ─── Access ─────────────────────────────────────────────────────────────────

// AccessDecisions counts resolver outcomes by resource kind and decision code.
var AccessDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "access",
	Name:      "decisions_total",
	Help:      "Access resolver decisions by resource kind and code.",
}, []string{"kind", "code"})

// ─── Notifications ──────────────────────────────────────────────────────────

// NotificationsDropped counts events lost to a full queue or a failing sink.
var NotificationsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "notifications",
	Name:      "dropped_total",
	Help:      "Notification events dropped, by reason.",
}, []string{"reason"})

// NotificationQueueDepth tracks events waiting for delivery.
var NotificationQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "notifications",
	Name:      "queue_depth",
	Help:      "Notification events waiting for delivery.",
})

// ObserveTransition records the outcome and latency of one lifecycle call.
func ObserveTransition(event, outcome string, started time.Time) {
	TaskTransitions.WithLabelValues(event, outcome).Inc()
	TransitionDuration.WithLabelValues(event).Observe(time.Since(started).Seconds())
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route, status string, started time.Time) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(time.Since(started).Seconds())
}
