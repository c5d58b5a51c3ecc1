// Package metrics defines all custom Prometheus metrics for the magazine
// platform. It is the single source of truth for metric names, labels, and
// help strings; promauto registers everything with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "magazine"

// SubmissionsCreatedTotal counts accepted submission intakes.
// Label:
//   - category: "my_news", "saying_hello", or "my_say"
var SubmissionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_created_total",
		Help:      "Total number of submissions received, by category.",
	},
	[]string{"category"},
)

// ModerationDecisionsTotal counts moderation decisions.
// Label:
//   - decision: "approve" or "reject"
var ModerationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_decisions_total",
		Help:      "Total number of moderation decisions, by decision.",
	},
	[]string{"decision"},
)

// IssuesPublishedTotal counts successful publish transitions.
var IssuesPublishedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issues_published_total",
		Help:      "Total number of magazine issues published.",
	},
)

// AuthFailuresTotal counts rejected requests at the session layer.
// Label:
//   - reason: "missing", "expired", "invalid", or "malformed"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by token verification.",
	},
	[]string{"reason"},
)
