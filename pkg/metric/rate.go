package metric

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/sketches-go/ddsketch"
)

// rateRelativeAccuracy is the DDSketch relative-error bound used for all
// Rate/Quantile/Histogram primitives. 1% matches the accuracy pktvisor's
// KLL-backed sketches target for p50/p90/p95/p99 reporting.
const rateRelativeAccuracy = 0.01

// Rate tracks events-per-second. A background tick (driven by Start)
// samples and resets a volatile per-second counter once per second,
// feeding the sample into a mergeable quantile sketch; an idle second
// contributes an explicit zero sample so idle periods do not bias the
// distribution upward. A "live" read of the current (not yet rolled)
// per-second counter is available without waiting for the next tick.
type Rate struct {
	Identity

	current uint64 // atomic: accumulates ingests in the current second

	mu       sync.RWMutex
	sketch   *ddsketch.DDSketch
	maxValue float64

	stop   context.CancelFunc
	ticked sync.WaitGroup
}

// NewRate creates a zero-valued Rate with the given identity.
func NewRate(schemaKey string, name []string, help string) *Rate {
	sk, err := ddsketch.NewDefaultDDSketch(rateRelativeAccuracy)
	if err != nil {
		// Only fails on an invalid accuracy constant, which is fixed above.
		panic(fmt.Sprintf("metric: invalid DDSketch accuracy: %v", err))
	}
	return &Rate{Identity: Identity{SchemaKey: schemaKey, Name: name, Help: help}, sketch: sk}
}

// Start launches the once-per-second tick goroutine. Calling Start twice
// without an intervening Stop is a caller error (the manager's lifecycle
// guards against this; see ringmgr.Manager).
func (r *Rate) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.stop = cancel
	r.ticked.Add(1)
	go r.run(ctx)
}

// Stop halts the tick goroutine and waits for it to quiesce.
func (r *Rate) Stop() {
	if r.stop != nil {
		r.stop()
	}
	r.ticked.Wait()
}

func (r *Rate) run(ctx context.Context) {
	defer r.ticked.Done()
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.tick()
		}
	}
}

func (r *Rate) tick() {
	v := atomic.SwapUint64(&r.current, 0)
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.sketch.Add(float64(v))
	if float64(v) > r.maxValue {
		r.maxValue = float64(v)
	}
}

// Add accumulates k events into the current second's counter.
func (r *Rate) Add(k uint64) {
	atomic.AddUint64(&r.current, k)
}

// Live returns the current (not-yet-rolled) per-second counter.
func (r *Rate) Live() uint64 {
	return atomic.LoadUint64(&r.current)
}

// Merge combines other's sketch into r. Undefined on a live (Start'ed)
// Rate; callers must rotate (stop ingest) first.
func (r *Rate) Merge(other *Rate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	other.mu.RLock()
	defer other.mu.RUnlock()
	if other.maxValue > r.maxValue {
		r.maxValue = other.maxValue
	}
	return r.sketch.MergeWith(other.sketch)
}

func (r *Rate) quantiles() (p50, p90, p95, p99 float64, n float64, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n = r.sketch.GetCount()
	if n == 0 {
		return 0, 0, 0, 0, 0, false
	}
	p50, _ = r.sketch.GetValueAtQuantile(0.50)
	p90, _ = r.sketch.GetValueAtQuantile(0.90)
	p95, _ = r.sketch.GetValueAtQuantile(0.95)
	p99, _ = r.sketch.GetValueAtQuantile(0.99)
	return p50, p90, p95, p99, n, true
}

// ToJSON writes p50/p90/p95/p99 under the rate's name path, and an
// optional "live" field with the current per-second counter. Quantile
// fields are omitted entirely (never emitted as zero/null) when no
// samples have been collected yet, per spec §3.
func (r *Rate) ToJSON(j JSONTree, includeLive bool) {
	if p50, p90, p95, p99, _, ok := r.quantiles(); ok {
		j.AssignPath(append(append([]string{}, r.Name...), "p50"), p50)
		j.AssignPath(append(append([]string{}, r.Name...), "p90"), p90)
		j.AssignPath(append(append([]string{}, r.Name...), "p95"), p95)
		j.AssignPath(append(append([]string{}, r.Name...), "p99"), p99)
	}
	if includeLive {
		j.AssignPath(append(append([]string{}, r.Name...), "live"), r.Live())
	}
}

// ToPrometheus writes a summary: p50/p90/p95/p99 sample lines plus
// "_sum" (the max observed per-second value, matching the source's
// get_max_value-as-sum convention) and "_count" (n samples).
func (r *Rate) ToPrometheus(w Writer, extraLabels LabelMap) {
	p50, p90, p95, p99, n, ok := r.quantiles()
	if !ok {
		return
	}
	fmt.Fprintf(w, "# HELP %s %s\n", r.BaseNameSnake(), r.Help)
	fmt.Fprintf(w, "# TYPE %s %s\n", r.BaseNameSnake(), KindRate.PromType())
	fmt.Fprintf(w, "%s %g\n", r.NameSnake(extraLabels, nil, [2]string{"quantile", "0.5"}), p50)
	fmt.Fprintf(w, "%s %g\n", r.NameSnake(extraLabels, nil, [2]string{"quantile", "0.9"}), p90)
	fmt.Fprintf(w, "%s %g\n", r.NameSnake(extraLabels, nil, [2]string{"quantile", "0.95"}), p95)
	fmt.Fprintf(w, "%s %g\n", r.NameSnake(extraLabels, nil, [2]string{"quantile", "0.99"}), p99)
	r.mu.RLock()
	maxValue := r.maxValue
	r.mu.RUnlock()
	fmt.Fprintf(w, "%s %g\n", r.NameSnake(extraLabels, []string{"sum"}), maxValue)
	fmt.Fprintf(w, "%s %g\n", r.NameSnake(extraLabels, []string{"count"}), n)
}
