// Package handler defines the façade contract every concrete handler
// (pcaphandler, flowhandler, dnshandler) implements: binding an input
// stream's callbacks to a ringmgr.Manager instance, and exposing the
// window read API by delegation (spec §4.4).
package handler

import "github.com/cuemby/netvisor/pkg/metric"

// Handler is the façade every concrete stream handler implements. It owns
// a ringmgr.Manager[B] internally (not exposed here, since the concrete
// bucket type differs per handler) and forwards window reads to it.
type Handler interface {
	// SchemaKey returns the Prometheus name prefix and JSON top-level key
	// this handler renders under (spec §4.4).
	SchemaKey() string

	// Start registers this handler's callbacks with its bound input
	// stream and starts its manager's rotation timer.
	Start() error

	// Stop unregisters callbacks and stops the manager (spec §5).
	Stop() error

	// WindowJSON renders period i (0 = live) as a JSONTree, merging the
	// most recent k finalized windows together when merged is true.
	WindowJSON(period int, merged bool) (metric.JSONTree, error)

	// WindowPrometheus renders period i (0 = live) as Prometheus text.
	WindowPrometheus(w metric.Writer, period int, merged bool) error
}
