package metric

import (
	"container/heap"
	"fmt"
	"sort"
	"sync"
)

// TopKItem is one entry in a rendered top-K list.
type TopKItem struct {
	Name     string `json:"name"`
	Estimate uint64 `json:"estimate"`
}

// topkCapacityFactor bounds a TopK sketch's tracked-key set to a small
// multiple of the requested top-N, keeping memory bounded while giving
// the Space-Saving algorithm enough headroom to converge on the true
// heavy hitters. No frequent-items/heavy-hitters sketch library is
// available among this project's dependencies (see DESIGN.md), so this
// is a hand-rolled Space-Saving counter over container/heap.
const topkCapacityFactor = 8

type topkEntry struct {
	key   string
	count uint64
	index int // heap index, maintained by container/heap
}

// topkHeap is a min-heap on count, used to find (and evict) the smallest
// tracked counter when the tracked-key set is full.
type topkHeap []*topkEntry

func (h topkHeap) Len() int            { return len(h) }
func (h topkHeap) Less(i, j int) bool  { return h[i].count < h[j].count }
func (h topkHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *topkHeap) Push(x interface{}) {
	e := x.(*topkEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *topkHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// TopK tracks the heaviest-weighted keys observed, ordered by decreasing
// estimate with ties broken lexicographically ascending, bounded to a
// configurable list length (spec §4.1, default 10).
type TopK struct {
	Identity

	topn int

	mu      sync.Mutex
	entries map[string]*topkEntry
	h       topkHeap
}

// NewTopK creates a zero-valued TopK with the given identity and maximum
// emitted list length.
func NewTopK(schemaKey string, name []string, help string, topn int) *TopK {
	if topn <= 0 {
		topn = 10
	}
	return &TopK{
		Identity: Identity{SchemaKey: schemaKey, Name: name, Help: help},
		topn:     topn,
		entries:  make(map[string]*topkEntry),
	}
}

func (t *TopK) capacity() int {
	c := t.topn * topkCapacityFactor
	if c < 64 {
		c = 64
	}
	return c
}

// Update records an observation of key with the given weight (>=1),
// following the Space-Saving algorithm: known keys get their counter
// incremented; unknown keys either take a free slot or, when the tracked
// set is full, evict and replace the minimum-count entry (inheriting its
// count plus the new weight, which over-estimates displaced keys but
// never under-estimates true heavy hitters).
func (t *TopK) Update(key string, weight uint64) {
	if weight == 0 {
		weight = 1
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[key]; ok {
		e.count += weight
		heap.Fix(&t.h, e.index)
		return
	}

	if len(t.entries) < t.capacity() {
		e := &topkEntry{key: key, count: weight}
		t.entries[key] = e
		heap.Push(&t.h, e)
		return
	}

	min := t.h[0]
	delete(t.entries, min.key)
	min.key = key
	min.count += weight
	t.entries[key] = min
	heap.Fix(&t.h, min.index)
}

// Merge combines other's tracked keys into t, summing counts for shared
// keys and re-bounding the result to t's capacity by evicting the
// smallest entries. This is an approximation: a key evicted from one side
// before merge is lost, the standard Space-Saving merge tradeoff.
func (t *TopK) Merge(other *TopK) {
	t.mu.Lock()
	defer t.mu.Unlock()
	other.mu.Lock()
	defer other.mu.Unlock()

	for key, oe := range other.entries {
		if e, ok := t.entries[key]; ok {
			e.count += oe.count
			heap.Fix(&t.h, e.index)
			continue
		}
		if len(t.entries) < t.capacity() {
			e := &topkEntry{key: key, count: oe.count}
			t.entries[key] = e
			heap.Push(&t.h, e)
			continue
		}
		min := t.h[0]
		if oe.count <= min.count {
			continue
		}
		delete(t.entries, min.key)
		min.key = key
		min.count = oe.count
		t.entries[key] = min
		heap.Fix(&t.h, min.index)
	}
}

// items returns the tracked entries ordered by decreasing count, ties
// broken by ascending key, truncated to topn.
func (t *TopK) items() []TopKItem {
	t.mu.Lock()
	list := make([]TopKItem, 0, len(t.entries))
	for _, e := range t.entries {
		list = append(list, TopKItem{Name: e.key, Estimate: e.count})
	}
	t.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Estimate != list[j].Estimate {
			return list[i].Estimate > list[j].Estimate
		}
		return list[i].Name < list[j].Name
	})
	if len(list) > t.topn {
		list = list[:t.topn]
	}
	return list
}

// ToJSON writes the ordered top-K list under the primitive's name path.
// An empty tracked set writes an empty list, not an omitted field.
func (t *TopK) ToJSON(j JSONTree) {
	items := t.items()
	out := make([]map[string]interface{}, len(items))
	for i, it := range items {
		out[i] = map[string]interface{}{"name": it.Name, "estimate": it.Estimate}
	}
	j.AssignPath(t.Name, out)
}

// ToPrometheus writes one gauge sample line per list entry, with the key
// rendered as a "key" label.
func (t *TopK) ToPrometheus(w Writer, extraLabels LabelMap) {
	items := t.items()
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "# HELP %s %s\n", t.BaseNameSnake(), t.Help)
	fmt.Fprintf(w, "# TYPE %s %s\n", t.BaseNameSnake(), "gauge")
	for _, it := range items {
		fmt.Fprintf(w, "%s %d\n", t.NameSnake(extraLabels, nil, [2]string{"key", it.Name}), it.Estimate)
	}
}
