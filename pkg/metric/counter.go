package metric

import (
	"fmt"
	"sync/atomic"
)

// Counter is a monotonically-increasing u64 value with sum merge
// semantics, rendered as a Prometheus gauge (the underlying value never
// decreases within a bucket, but buckets themselves roll off).
type Counter struct {
	Identity
	value uint64
}

// NewCounter creates a zero-valued Counter with the given identity.
func NewCounter(schemaKey string, name []string, help string) *Counter {
	return &Counter{Identity: Identity{SchemaKey: schemaKey, Name: name, Help: help}}
}

// Add increments the counter by k. Safe for concurrent callers.
func (c *Counter) Add(k uint64) {
	atomic.AddUint64(&c.value, k)
}

// Inc increments the counter by one.
func (c *Counter) Inc() {
	c.Add(1)
}

// Value returns the current value.
func (c *Counter) Value() uint64 {
	return atomic.LoadUint64(&c.value)
}

// Merge combines other into c by summation. Both must be read-only
// (rotated) buckets' counters; calling this on a live counter races with
// ingest.
func (c *Counter) Merge(other *Counter) {
	atomic.AddUint64(&c.value, other.Value())
}

// ToJSON writes the scalar value under the counter's name path.
func (c *Counter) ToJSON(j JSONTree) {
	j.AssignPath(c.Name, c.Value())
}

// ToPrometheus writes the HELP/TYPE preamble and one gauge sample line.
func (c *Counter) ToPrometheus(w Writer, extraLabels LabelMap) {
	fmt.Fprintf(w, "# HELP %s %s\n", c.BaseNameSnake(), c.Help)
	fmt.Fprintf(w, "# TYPE %s %s\n", c.BaseNameSnake(), KindCounter.PromType())
	fmt.Fprintf(w, "%s %d\n", c.NameSnake(extraLabels, nil), c.Value())
}
