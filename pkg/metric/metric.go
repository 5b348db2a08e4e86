package metric

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// LabelMap is an ordered-by-key set of Prometheus label values.
type LabelMap map[string]string

// staticLabels holds the process-wide label set applied to every
// Prometheus-rendered metric. It is set once during initialization
// (see SetStaticLabels) and treated as read-only thereafter; the mutex
// only protects the one-time initialization race against early readers.
var staticLabels struct {
	mu sync.RWMutex
	m  LabelMap
}

// SetStaticLabels installs the process-wide static label map. It should be
// called once during handler/manager startup, before any ingest or render
// call; calling it again replaces the set for subsequent renders only.
func SetStaticLabels(l LabelMap) {
	staticLabels.mu.Lock()
	defer staticLabels.mu.Unlock()
	staticLabels.m = l
}

// StaticLabels returns the currently installed static label map.
func StaticLabels() LabelMap {
	staticLabels.mu.RLock()
	defer staticLabels.mu.RUnlock()
	return staticLabels.m
}

// Identity is the immutable identity carried by every metric primitive:
// the schema key used as a Prometheus name prefix, a dotted name path, and
// a help description. Identity and label rendering are orthogonal to the
// primitive's internal state.
type Identity struct {
	SchemaKey string
	Name      []string
	Help      string
}

func snakeJoin(parts []string) string {
	return strings.Join(parts, "_")
}

// BaseNameSnake renders "schema_key_name_path" with no labels, matching
// the naming contract of spec §4.1.
func (id Identity) BaseNameSnake() string {
	return id.SchemaKey + "_" + snakeJoin(id.Name)
}

// PromName renders the full Prometheus metric name, optionally with
// additional dotted name components appended (e.g. "_sum", "_count").
func (id Identity) PromName(extraName ...string) string {
	name := id.BaseNameSnake()
	if len(extraName) > 0 {
		name += "_" + snakeJoin(extraName)
	}
	return name
}

// renderLabels builds the "{key="value",...}" suffix for a Prometheus
// sample line. Label precedence, per spec §6: static labels merged in
// first, handler-supplied extraLabels second, then any per-sample labels
// (such as "quantile") last. Within the static and extra groups, keys are
// sorted for stable output across renders of the same bucket.
func renderLabels(extraLabels LabelMap, perSample ...[2]string) string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	writePair := func(k, v string) {
		if !first {
			b.WriteByte(',')
		}
		first = false
		fmt.Fprintf(&b, "%s=%q", k, v)
	}

	static := StaticLabels()
	keys := make([]string, 0, len(static))
	for k := range static {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writePair(k, static[k])
	}

	keys = keys[:0]
	for k := range extraLabels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writePair(k, extraLabels[k])
	}

	for _, kv := range perSample {
		writePair(kv[0], kv[1])
	}

	b.WriteByte('}')
	return b.String()
}

// NameSnake renders a full Prometheus sample-line prefix: name plus
// rendered label set, matching the C++ source's Metric::name_snake.
func (id Identity) NameSnake(extraLabels LabelMap, extraName []string, perSample ...[2]string) string {
	return id.PromName(extraName...) + renderLabels(extraLabels, perSample...)
}

// JSONTree is the nested-object builder used by every primitive's ToJSON
// method. Paths are dotted name components; AssignPath creates
// intermediate objects as needed, matching Metric::name_json_assign.
type JSONTree map[string]interface{}

// AssignPath writes val at the nested location named by path, creating
// intermediate map[string]interface{} objects as needed.
func (t JSONTree) AssignPath(path []string, val interface{}) {
	cur := map[string]interface{}(t)
	for i, part := range path {
		if i == len(path)-1 {
			cur[part] = val
			return
		}
		next, ok := cur[part].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[part] = next
		}
		cur = next
	}
}

// Kind identifies a primitive's sketch family, used for Prometheus TYPE
// lines.
type Kind string

const (
	KindCounter     Kind = "counter"
	KindRate        Kind = "rate"
	KindQuantile    Kind = "quantile"
	KindCardinality Kind = "cardinality"
	KindTopK        Kind = "topk"
	KindHistogram   Kind = "histogram"
)

// PromType returns the Prometheus TYPE value for a given metric Kind, per
// spec §4.1: gauge for Counter/Cardinality, summary for Rate/Quantile/
// Histogram.
func (k Kind) PromType() string {
	switch k {
	case KindCounter, KindCardinality:
		return "gauge"
	case KindRate, KindQuantile, KindHistogram:
		return "summary"
	default:
		return "untyped"
	}
}

// Whether a given field updates only on deep-sampled events (Cardinality,
// TopK, and payload-size Quantile/Histogram fields) or on every event
// (Counter, event-rate Rate fields) is a per-field decision made by each
// handler's bucket in its on_event method, not an inherent property of a
// Kind — the same Kind (Quantile) is used both for a deep-gated
// payload-size field and could be used for an always-on field elsewhere.
