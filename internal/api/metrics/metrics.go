// Package metrics defines and registers all custom Prometheus metrics for the
// SkillSwap API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry via promauto
// at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skillswap"

// BrowseQueriesTotal counts browse queries by selection branch.
// Label:
//   - branch: "anonymous", "teachers", "mutual_term", "all", or "mutual"
var BrowseQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "browse_queries_total",
		Help:      "Total number of browse queries, by selection branch.",
	},
	[]string{"branch"},
)

// SwapsCreatedTotal counts newly proposed swaps.
var SwapsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "swaps_created_total",
		Help:      "Total number of swap requests created.",
	},
)

// SwapTransitionsTotal counts successful lifecycle transitions.
// Label:
//   - action: "accept", "reject", "cancel", or "complete"
var SwapTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "swap_transitions_total",
		Help:      "Total number of successful swap status transitions, by action.",
	},
	[]string{"action"},
)

// RatingsSubmittedTotal counts accepted post-completion ratings.
var RatingsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_submitted_total",
		Help:      "Total number of swap ratings recorded.",
	},
)

// AuditQueueDepth tracks the number of audit events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of swap events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)
