/*
Package metric implements the individual metric primitives that make up a
netvisor metrics bucket: Counter, Rate, Quantile, Cardinality, TopK and
Histogram.

Each primitive carries an immutable identity (a schema key such as "flow",
a dotted name path, and a help description) and exposes three contracts:

  - Update: ingest a new observation. Safe for concurrent callers on the
    same live bucket.
  - Merge: combine two read-only instances of the same kind. Associative
    and commutative (up to floating point noise).
  - ToJSON / ToPrometheus: render the current value under the primitive's
    name path, or as Prometheus exposition-format text.

Quantile-shaped primitives (Rate, Quantile, Histogram) are backed by
DataDog's DDSketch (github.com/DataDog/sketches-go), a mergeable
relative-error quantile sketch. Cardinality is backed by a HyperLogLog
sketch (github.com/axiomhq/hyperloglog). TopK is a bounded-memory
Space-Saving heavy-hitters counter with no external sketch library
available in the dependency set used by this project; see DESIGN.md.
*/
package metric
