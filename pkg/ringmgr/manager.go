package ringmgr

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cuemby/netvisor/pkg/bucket"
	"github.com/cuemby/netvisor/pkg/events"
	"github.com/cuemby/netvisor/pkg/log"
	"github.com/cuemby/netvisor/pkg/metricerr"
	"github.com/rs/zerolog"
)

// Factory constructs a fresh, live bucket of a handler's concrete type B.
type Factory[B bucket.Bucket] func() B

// Manager is the generic ring of time-bucketed aggregates described in
// spec §3-§4: a ring of Periods+1 buckets (ring[0] is always the live
// bucket), a rotation ticker, and the ingest/snapshot protocols. It is
// parameterized over a handler's concrete bucket type, matching the C++
// source's AbstractMetricsManager<Bucket> template.
type Manager[B bucket.Bucket] struct {
	schemaKey string
	cfg       Config
	factory   Factory[B]
	broker    *events.Broker
	logger    zerolog.Logger

	ringMu sync.RWMutex
	ring   []B

	state  stateBox
	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs a Manager in the Created state. It does not start the
// rotation timer; call Start for that.
func New[B bucket.Bucket](schemaKey string, cfg Config, factory Factory[B], broker *events.Broker) (*Manager[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager[B]{
		schemaKey: schemaKey,
		cfg:       cfg,
		factory:   factory,
		broker:    broker,
		logger:    log.WithSchemaKey(schemaKey),
	}, nil
}

// Start transitions Created -> Running, creates the initial live bucket,
// and launches the rotation goroutine. Calling Start twice, or after
// Stop, is a LifecycleError (spec §4.3: "restart after stop
// unsupported/fatal").
func (m *Manager[B]) Start() error {
	if !m.state.compareAndSwap(StateCreated, StateRunning) {
		return metricerr.NewLifecycleError("start", m.state.load().String())
	}

	m.ringMu.Lock()
	m.ring = []B{m.factory()}
	m.ringMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.run(ctx)

	m.publish(events.EventHandlerStarted, "handler started")
	return nil
}

// Stop transitions Running -> Stopped, halts the rotation timer, and
// waits for it to quiesce (spec §5: "wait quiesce ... no timeout needed,
// bounded-time locks"). In-flight ProcessEvent calls that already hold a
// reference to the live bucket complete normally; new calls after Stop
// observe the Stopped state and return a LifecycleError.
func (m *Manager[B]) Stop() error {
	if !m.state.compareAndSwap(StateRunning, StateStopped) {
		return metricerr.NewLifecycleError("stop", m.state.load().String())
	}
	m.cancel()
	<-m.done
	m.publish(events.EventHandlerStopped, "handler stopped")
	return nil
}

// Running reports whether the manager is in the Running state; used by
// pkg/health to back an admin /healthz checker.
func (m *Manager[B]) Running() bool {
	return m.state.load() == StateRunning
}

func (m *Manager[B]) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(time.Duration(m.cfg.WindowSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.rotate()
		case <-ctx.Done():
			return
		}
	}
}

// rotate implements spec §4.3's 5-step rotation protocol: lock the ring,
// create a new live bucket, mark the old live bucket read-only, prepend
// the new bucket, drop the oldest if the ring now exceeds Periods+1, and
// release the lock. Rotation never touches primitive state.
func (m *Manager[B]) rotate() {
	now := time.Now()

	m.ringMu.Lock()
	defer m.ringMu.Unlock()

	oldLive := m.ring[0]
	oldLive.MarkReadOnly(now)

	newLive := m.factory()
	m.ring = append([]B{newLive}, m.ring...)

	maxLen := int(m.cfg.Periods) + 1
	if len(m.ring) > maxLen {
		m.ring = m.ring[:maxLen]
	}

	m.logger.Debug().Int("ring_len", len(m.ring)).Msg("rotated live bucket")
	m.publish(events.EventBucketRotated, "rotated live bucket")
}

// ProcessEvent dispatches a single decoded event into the live bucket,
// implementing spec §4.3's ingest protocol: grab the live bucket under
// the ring's read lock (never the write lock), decide deep-sampling by a
// uniform draw against DeepSampleRate, and forward to the bucket's own
// OnEvent. Errors only when the manager is not Running.
func (m *Manager[B]) ProcessEvent(event interface{}) error {
	if m.state.load() != StateRunning {
		return metricerr.NewLifecycleError("process_event", m.state.load().String())
	}

	m.ringMu.RLock()
	live := m.ring[0]
	m.ringMu.RUnlock()

	deep := m.deepSample()
	live.OnEvent(event, deep)
	return nil
}

// deepSample draws a uniform [0,100) value and compares it against
// DeepSampleRate, gating cardinality/top-K/payload primitives only (spec
// §4.3's "Deep-sample correctness": counters and num_events always see
// every event regardless of this decision).
func (m *Manager[B]) deepSample() bool {
	if m.cfg.DeepSampleRate >= 100 {
		return true
	}
	if m.cfg.DeepSampleRate == 0 {
		return false
	}
	return rand.Float64()*100 < float64(m.cfg.DeepSampleRate)
}

// Bucket returns a read-only snapshot reference to the bucket at ring
// position i (0 = live). The returned Bucket must not be retained past
// the next rotation's eviction of it from the ring.
func (m *Manager[B]) Bucket(i int) (bucket.Bucket, bool) {
	m.ringMu.RLock()
	defer m.ringMu.RUnlock()
	if i < 0 || i >= len(m.ring) {
		var zero bucket.Bucket
		return zero, false
	}
	return m.ring[i], true
}

// WindowMerged returns a synthetic bucket formed by merging the k most
// recent finalized (non-live) buckets, discarded by the caller after use.
// k=0 returns the live bucket directly (spec §4.3). A request for more
// periods than are retained is not an error: k is clamped to the number
// of finalized buckets in the ring, and all of them are merged.
func (m *Manager[B]) WindowMerged(k int) (bucket.Bucket, error) {
	if k == 0 {
		m.ringMu.RLock()
		live := m.ring[0]
		m.ringMu.RUnlock()
		return live, nil
	}

	m.ringMu.RLock()
	finalized := m.ring[1:]
	n := k
	if n > len(finalized) {
		n = len(finalized)
	}
	toMerge := make([]B, n)
	copy(toMerge, finalized[:n])
	m.ringMu.RUnlock()

	merged := m.factory()
	now := time.Now()
	merged.MarkReadOnly(now)

	for _, b := range toMerge {
		if err := merged.Merge(b); err != nil {
			m.logger.Error().Err(err).Msg("window merge failed for one bucket, continuing")
		}
	}
	return merged, nil
}

// SchemaKey returns the handler's schema key (spec §4.4).
func (m *Manager[B]) SchemaKey() string {
	return m.schemaKey
}

func (m *Manager[B]) publish(t events.EventType, msg string) {
	if m.broker == nil {
		return
	}
	m.broker.Publish(&events.Event{
		Type:      t,
		SchemaKey: m.schemaKey,
		Message:   msg,
	})
}
