package metric

import (
	"fmt"
	"sync"

	"github.com/DataDog/sketches-go/ddsketch"
)

// Histogram is a bucketed quantile sketch reporting a fixed quantile set
// (p50/p90/p95/p99). It is distinguished from Quantile only by identity
// and is kept as a separate type because spec §3 lists it as a distinct
// primitive kind with its own TYPE/name conventions.
type Histogram struct {
	Identity

	mu     sync.RWMutex
	sketch *ddsketch.DDSketch
}

// NewHistogram creates a zero-valued Histogram with the given identity.
func NewHistogram(schemaKey string, name []string, help string) *Histogram {
	sk, err := ddsketch.NewDefaultDDSketch(rateRelativeAccuracy)
	if err != nil {
		panic(fmt.Sprintf("metric: invalid DDSketch accuracy: %v", err))
	}
	return &Histogram{Identity: Identity{SchemaKey: schemaKey, Name: name, Help: help}, sketch: sk}
}

// Update ingests a single observation.
func (h *Histogram) Update(x float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_ = h.sketch.Add(x)
}

// Merge combines other's sketch into h.
func (h *Histogram) Merge(other *Histogram) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	other.mu.RLock()
	defer other.mu.RUnlock()
	return h.sketch.MergeWith(other.sketch)
}

func (h *Histogram) quantiles() (p50, p90, p95, p99, n float64, ok bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n = h.sketch.GetCount()
	if n == 0 {
		return 0, 0, 0, 0, 0, false
	}
	p50, _ = h.sketch.GetValueAtQuantile(0.50)
	p90, _ = h.sketch.GetValueAtQuantile(0.90)
	p95, _ = h.sketch.GetValueAtQuantile(0.95)
	p99, _ = h.sketch.GetValueAtQuantile(0.99)
	return p50, p90, p95, p99, n, true
}

// ToJSON writes p50/p90/p95/p99 under the histogram's name path.
func (h *Histogram) ToJSON(j JSONTree) {
	p50, p90, p95, p99, _, ok := h.quantiles()
	if !ok {
		return
	}
	j.AssignPath(append(append([]string{}, h.Name...), "p50"), p50)
	j.AssignPath(append(append([]string{}, h.Name...), "p90"), p90)
	j.AssignPath(append(append([]string{}, h.Name...), "p95"), p95)
	j.AssignPath(append(append([]string{}, h.Name...), "p99"), p99)
}

// ToPrometheus writes a summary with p50/p90/p95/p99, "_sum" (approximate,
// the DDSketch's own running sum-of-observations) and "_count".
func (h *Histogram) ToPrometheus(w Writer, extraLabels LabelMap) {
	p50, p90, p95, p99, n, ok := h.quantiles()
	if !ok {
		return
	}
	fmt.Fprintf(w, "# HELP %s %s\n", h.BaseNameSnake(), h.Help)
	fmt.Fprintf(w, "# TYPE %s %s\n", h.BaseNameSnake(), KindHistogram.PromType())
	fmt.Fprintf(w, "%s %g\n", h.NameSnake(extraLabels, nil, [2]string{"quantile", "0.5"}), p50)
	fmt.Fprintf(w, "%s %g\n", h.NameSnake(extraLabels, nil, [2]string{"quantile", "0.9"}), p90)
	fmt.Fprintf(w, "%s %g\n", h.NameSnake(extraLabels, nil, [2]string{"quantile", "0.95"}), p95)
	fmt.Fprintf(w, "%s %g\n", h.NameSnake(extraLabels, nil, [2]string{"quantile", "0.99"}), p99)
	h.mu.RLock()
	sum := h.sketch.GetSum()
	h.mu.RUnlock()
	fmt.Fprintf(w, "%s %g\n", h.NameSnake(extraLabels, []string{"sum"}), sum)
	fmt.Fprintf(w, "%s %g\n", h.NameSnake(extraLabels, []string{"count"}), n)
}
