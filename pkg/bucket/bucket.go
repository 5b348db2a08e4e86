package bucket

import (
	"time"

	"github.com/cuemby/netvisor/pkg/metric"
)

// Bucket is the contract every handler-specific window aggregate
// implements. The ring manager (pkg/ringmgr) never inspects a bucket's
// concrete primitive set; it only calls through this interface.
type Bucket interface {
	// OnEvent dispatches a single decoded event (the handler's own event
	// type, passed as interface{}) into the bucket's primitives. deep
	// reports whether this event passed the deep-sample filter; only
	// cardinality/top-K/payload primitives are gated on it.
	OnEvent(event interface{}, deep bool)

	// Merge folds other's primitive state into the receiver, matched by
	// primitive identity (name path), not position. Both buckets must be
	// read-only.
	Merge(other Bucket) error

	// ToJSON renders every primitive under its dotted name path.
	ToJSON(j metric.JSONTree)

	// ToPrometheus renders every primitive as Prometheus exposition text.
	ToPrometheus(w metric.Writer, extraLabels metric.LabelMap)

	// MarkReadOnly idempotently freezes the bucket at rotation, setting
	// its end timestamp. After this call, OnEvent must not be invoked.
	MarkReadOnly(end time.Time)

	// ReadOnly reports whether MarkReadOnly has been called.
	ReadOnly() bool

	// StartTstamp/EndTstamp delimit the window. EndTstamp is the zero
	// time while the bucket is live.
	StartTstamp() time.Time
	EndTstamp() time.Time

	// EventData returns num_events and num_samples together, read under
	// the bucket's shared lock for snapshot consistency (spec §4.2).
	EventData() (numEvents, numSamples uint64)
}

// Factory constructs a fresh, live bucket of a handler's concrete type.
// The ring manager is parameterized over this instead of a bucket type
// literal so each handler controls its own primitive set (spec §4.4:
// "handlers declare their primitive set at construction").
type Factory func() Bucket
