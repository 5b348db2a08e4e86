package metric

import (
	"fmt"
	"sync"

	"github.com/DataDog/sketches-go/ddsketch"
)

// Quantile is a mergeable sketch of observed doubles, reporting
// p50/p90/p95/p99, an approximate sum (the max observed value, matching
// the source library's convention for this field), and a count.
type Quantile struct {
	Identity

	mu       sync.RWMutex
	sketch   *ddsketch.DDSketch
	maxValue float64
}

// NewQuantile creates a zero-valued Quantile with the given identity.
func NewQuantile(schemaKey string, name []string, help string) *Quantile {
	sk, err := ddsketch.NewDefaultDDSketch(rateRelativeAccuracy)
	if err != nil {
		panic(fmt.Sprintf("metric: invalid DDSketch accuracy: %v", err))
	}
	return &Quantile{Identity: Identity{SchemaKey: schemaKey, Name: name, Help: help}, sketch: sk}
}

// Update ingests a single observation. Safe for concurrent callers.
func (q *Quantile) Update(x float64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	_ = q.sketch.Add(x)
	if x > q.maxValue {
		q.maxValue = x
	}
}

// Merge combines other's sketch into q. Undefined if either is still a
// live bucket's primitive.
func (q *Quantile) Merge(other *Quantile) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	other.mu.RLock()
	defer other.mu.RUnlock()
	if other.maxValue > q.maxValue {
		q.maxValue = other.maxValue
	}
	return q.sketch.MergeWith(other.sketch)
}

func (q *Quantile) quantiles() (p50, p90, p95, p99, n float64, ok bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	n = q.sketch.GetCount()
	if n == 0 {
		return 0, 0, 0, 0, 0, false
	}
	p50, _ = q.sketch.GetValueAtQuantile(0.50)
	p90, _ = q.sketch.GetValueAtQuantile(0.90)
	p95, _ = q.sketch.GetValueAtQuantile(0.95)
	p99, _ = q.sketch.GetValueAtQuantile(0.99)
	return p50, p90, p95, p99, n, true
}

// ToJSON writes p50/p90/p95/p99 under the quantile's name path. All four
// fields are omitted together when no data has been observed.
func (q *Quantile) ToJSON(j JSONTree) {
	p50, p90, p95, p99, _, ok := q.quantiles()
	if !ok {
		return
	}
	j.AssignPath(append(append([]string{}, q.Name...), "p50"), p50)
	j.AssignPath(append(append([]string{}, q.Name...), "p90"), p90)
	j.AssignPath(append(append([]string{}, q.Name...), "p95"), p95)
	j.AssignPath(append(append([]string{}, q.Name...), "p99"), p99)
}

// ToPrometheus writes a summary: p50/p90/p95/p99 sample lines plus
// "_sum" and "_count".
func (q *Quantile) ToPrometheus(w Writer, extraLabels LabelMap) {
	p50, p90, p95, p99, n, ok := q.quantiles()
	if !ok {
		return
	}
	fmt.Fprintf(w, "# HELP %s %s\n", q.BaseNameSnake(), q.Help)
	fmt.Fprintf(w, "# TYPE %s %s\n", q.BaseNameSnake(), KindQuantile.PromType())
	fmt.Fprintf(w, "%s %g\n", q.NameSnake(extraLabels, nil, [2]string{"quantile", "0.5"}), p50)
	fmt.Fprintf(w, "%s %g\n", q.NameSnake(extraLabels, nil, [2]string{"quantile", "0.9"}), p90)
	fmt.Fprintf(w, "%s %g\n", q.NameSnake(extraLabels, nil, [2]string{"quantile", "0.95"}), p95)
	fmt.Fprintf(w, "%s %g\n", q.NameSnake(extraLabels, nil, [2]string{"quantile", "0.99"}), p99)
	q.mu.RLock()
	maxValue := q.maxValue
	q.mu.RUnlock()
	fmt.Fprintf(w, "%s %g\n", q.NameSnake(extraLabels, []string{"sum"}), maxValue)
	fmt.Fprintf(w, "%s %g\n", q.NameSnake(extraLabels, []string{"count"}), n)
}
