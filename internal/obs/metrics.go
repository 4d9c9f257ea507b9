package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Lookups counts inventory lookups by outcome (ok or an error kind).
	Lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_lookups_total",
			Help: "Total number of inventory lookups",
		},
		[]string{"outcome"},
	)

	// Upserts counts inventory upserts by outcome; successful writes are
	// labelled with the action (created or updated).
	Upserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_upserts_total",
			Help: "Total number of inventory upserts",
		},
		[]string{"outcome"},
	)

	// ResolveAttempts counts per-candidate attempts against the product
	// service by result.
	ResolveAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_resolve_attempts_total",
			Help: "Total number of product service candidate attempts",
		},
		[]string{"result"},
	)

	// EventsDropped counts change events dropped because the notification
	// buffer was full.
	EventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "change_events_dropped_total",
			Help: "Total number of change events dropped by the notifier",
		},
	)
)

var registerOnce sync.Once

// RegisterMetrics registers all service collectors with the default registry.
// Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(Lookups)
		prometheus.MustRegister(Upserts)
		prometheus.MustRegister(ResolveAttempts)
		prometheus.MustRegister(EventsDropped)
	})
}
