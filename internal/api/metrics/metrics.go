// Package metrics defines and registers the custom Prometheus metrics of the
// back-office API. Metrics are registered with the default registry on
// package init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// LoginsTotal counts credential logins.
// Labels:
//   - population: "AdminUser" or "User"
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by population and result.",
	},
	[]string{"population", "result"},
)

// AuthRejectionsTotal counts requests turned away by an authentication gate.
// Labels:
//   - population: the gate's population
//   - reason: "invalid_token", "unauthenticated" or "error"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the authentication gate.",
	},
	[]string{"population", "reason"},
)

// SessionRenewalsTotal counts sliding TTL renewals, one per authenticated request.
var SessionRenewalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_renewals_total",
		Help:      "Total number of session TTL renewals.",
	},
	[]string{"population"},
)

// PermissionDenialsTotal counts route-level permission denials, by key.
var PermissionDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denials_total",
		Help:      "Total number of requests denied for a missing permission.",
	},
	[]string{"permission"},
)
