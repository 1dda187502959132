// Package metrics is the single source of truth for the Prometheus metric
// names, labels, and help strings exported by the front end.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "custodia"

// RPCCallsTotal counts terminus RPC calls by method and outcome.
// Labels:
//   - method: the wire verb ("getaccountinfo", "connect", "rm", ...)
//   - outcome: "ok", "remote_error", or "transport_error"
var RPCCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_calls_total",
		Help:      "Total number of terminus RPC calls, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// RPCDuration measures the duration of terminus RPC round trips.
var RPCDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Duration of terminus RPC round trips.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// LoginsTotal counts login attempts by result ("ok" or "failed").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AccountOpsTotal counts orchestrated account operations by action and
// result. Actions mirror the form actions on /accounts.
var AccountOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_ops_total",
		Help:      "Total number of account operations, by action and result.",
	},
	[]string{"action", "result"},
)
