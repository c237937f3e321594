// Package metrics defines and registers all custom Prometheus metrics for
// the IVY API. It is the single source of truth for metric names, labels,
// and help strings. Metrics built with promauto register themselves with the
// default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ivy"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts signup attempts.
// Label:
//   - result: "ok" or "failed"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts access-token refreshes.
// Label:
//   - result: "ok" or "failed"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of access token refreshes, by result.",
	},
	[]string{"result"},
)

// ── Record metrics ────────────────────────────────────────────────────────────

// RecordWritesTotal counts record mutations.
// Label:
//   - op: "create", "update", or "delete"
var RecordWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "record_writes_total",
		Help:      "Total number of record mutations, by operation.",
	},
	[]string{"op"},
)
