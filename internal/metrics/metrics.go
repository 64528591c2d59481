// Package metrics exposes Prometheus instrumentation for the order
// core. The collectors cover the two scheduler sweeps with careful
// attention to label cardinality: the only label is the sweep name
// ("expire" or "reminder"). All collectors are safe for concurrent use.
//
// The sweep commands are short-lived processes, so the counters are
// shipped to a Pushgateway at the end of each run rather than scraped;
// a long-lived embedder can serve Registry over promhttp instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry holds the order-core collectors.
var Registry = prometheus.NewRegistry()

var (
	// OrdersExpired counts orders moved to COMPLETED by the expiry
	// sweep.
	OrdersExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_expired_total",
			Help: "Total number of orders expired by the expiry sweep.",
		},
	)

	// RenewalReminders counts renewal reminder notifications sent by
	// the reminder sweep.
	RenewalReminders = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "renewal_reminders_sent_total",
			Help: "Total number of renewal reminder notifications sent.",
		},
	)

	// SweepFailures counts per-candidate failures, by sweep. A failed
	// candidate is skipped, not retried, so this is the signal that a
	// sweep is leaving work behind.
	SweepFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_candidate_failures_total",
			Help: "Total number of sweep candidates that failed and were skipped.",
		},
		[]string{"sweep"},
	)
)

func init() {
	Registry.MustRegister(OrdersExpired, RenewalReminders, SweepFailures)
}

// PushToGateway ships the registry's current state to a Prometheus
// Pushgateway under the given job name.
func PushToGateway(url, job string) error {
	return push.New(url, job).Gatherer(Registry).Push()
}
