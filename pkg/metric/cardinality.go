package metric

import (
	"fmt"
	"sync"

	"github.com/axiomhq/hyperloglog"
)

// Cardinality estimates the number of distinct keys observed, backed by a
// HyperLogLog sketch. Merge is sketch union, never estimate addition.
type Cardinality struct {
	Identity

	mu     sync.RWMutex
	sketch *hyperloglog.Sketch
}

// NewCardinality creates a zero-valued Cardinality with the given identity.
func NewCardinality(schemaKey string, name []string, help string) *Cardinality {
	return &Cardinality{
		Identity: Identity{SchemaKey: schemaKey, Name: name, Help: help},
		sketch:   hyperloglog.New14(),
	}
}

// Update adds a key (its byte representation, e.g. a serialized IP
// address) to the sketch.
func (c *Cardinality) Update(key []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sketch.Insert(key)
}

// Merge unions other's sketch into c.
func (c *Cardinality) Merge(other *Cardinality) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	other.mu.RLock()
	defer other.mu.RUnlock()
	return c.sketch.Merge(other.sketch)
}

// Estimate returns the distinct-count estimate, rounded to the nearest
// integer for emission, per spec §4.1.
func (c *Cardinality) Estimate() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sketch.Estimate()
}

// ToJSON writes the rounded estimate under the cardinality's name path.
func (c *Cardinality) ToJSON(j JSONTree) {
	j.AssignPath(c.Name, c.Estimate())
}

// ToPrometheus writes a single gauge sample line.
func (c *Cardinality) ToPrometheus(w Writer, extraLabels LabelMap) {
	fmt.Fprintf(w, "# HELP %s %s\n", c.BaseNameSnake(), c.Help)
	fmt.Fprintf(w, "# TYPE %s %s\n", c.BaseNameSnake(), KindCardinality.PromType())
	fmt.Fprintf(w, "%s %d\n", c.NameSnake(extraLabels, nil), c.Estimate())
}
