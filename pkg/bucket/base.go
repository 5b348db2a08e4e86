package bucket

import (
	"sync"
	"sync/atomic"
	"time"
)

// Base implements the fields common to every concrete bucket: the
// start/end window timestamps, the num_events/num_samples event-data
// pair, and the read-only flag. Handler buckets embed Base and add their
// own metric.* fields.
//
// Invariant (spec §3): 0 <= numSamples <= numEvents, enforced by always
// incrementing numEvents at least once per event before any numSamples
// increment for that same event.
type Base struct {
	mu sync.RWMutex // guards numEvents/numSamples as a consistent pair

	numEvents  uint64
	numSamples uint64

	start time.Time
	end   time.Time

	readOnly atomic.Bool
}

// NewBase creates a Base with start set to now; callers that need the
// "first ingest or start, whichever is first" semantics of spec §3
// should instead leave start zero and call SetStartIfZero on first
// ingest.
func NewBase(start time.Time) Base {
	return Base{start: start}
}

// SetStartIfZero sets the start timestamp on first use, matching spec
// §3's "first bucket's start_tstamp is set on first ingest or on start,
// whichever is first".
func (b *Base) SetStartIfZero(t time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.start.IsZero() {
		b.start = t
	}
}

// RecordEvent increments num_events, and num_samples when deep is true.
// Must be called before a bucket is marked read-only.
func (b *Base) RecordEvent(deep bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.numEvents++
	if deep {
		b.numSamples++
	}
}

// EventData returns num_events and num_samples together under the
// shared lock, per spec §4.2.
func (b *Base) EventData() (numEvents, numSamples uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.numEvents, b.numSamples
}

// MergeEventData adds other's event-data pair into b. Requires both
// buckets to be read-only.
func (b *Base) MergeEventData(otherEvents, otherSamples uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.numEvents += otherEvents
	b.numSamples += otherSamples
}

// MarkReadOnly idempotently freezes the bucket, setting EndTstamp on the
// first call only.
func (b *Base) MarkReadOnly(end time.Time) {
	if b.readOnly.CompareAndSwap(false, true) {
		b.mu.Lock()
		b.end = end
		b.mu.Unlock()
	}
}

// ReadOnly reports whether MarkReadOnly has been called.
func (b *Base) ReadOnly() bool {
	return b.readOnly.Load()
}

// StartTstamp returns the window's start time.
func (b *Base) StartTstamp() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.start
}

// EndTstamp returns the window's end time, the zero time while live.
func (b *Base) EndTstamp() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.end
}
