// Package metrics holds the prometheus collectors of the ledger.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var TransactionsRecorded = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "transactions_recorded_total",
		Help:      "How many ledger entries were recorded, partitioned by type and source.",
	},
	[]string{"type", "source"},
)

var AllocationSync = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "allocation_sync_total",
		Help:      "How many monthly allocation entries were touched by synchronization, partitioned by action.",
	},
	[]string{"action"},
)

var AdvancesReimbursed = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "advances_reimbursed_total",
		Help:      "How many advances were marked as reimbursed.",
	},
)

var RequestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "requests_total",
		Help: "How many HTTP requests processed, partitioned by status code and HTTP method.",
	},
	[]string{"code", "method", "url"},
)

var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "request_duration_seconds",
		Help: "The HTTP request latencies in seconds.",
	},
	[]string{"code", "method", "url"},
)

// Allocation synchronization actions
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionRemoved   = "removed"
	ActionUnchanged = "unchanged"
)

var collectors = []prometheus.Collector{
	TransactionsRecorded,
	AllocationSync,
	AdvancesReimbursed,
	RequestCount,
	RequestDuration,
}

// Register registers all collectors with the registerer.
func Register(r prometheus.Registerer) error {
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			return fmt.Errorf("could not register %s with Prometheus: %w", c, err)
		}
	}

	return nil
}

// Unregister unregisters all collectors. It reports if all of them were registered.
//
// This is needed to cleanly exit and to configure the router more than once in tests.
func Unregister(r prometheus.Registerer) bool {
	ok := true
	for _, c := range collectors {
		if !r.Unregister(c) {
			ok = false
		}
	}

	return ok
}
