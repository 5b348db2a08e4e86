package ringmgr

import (
	"sync"
	"testing"
	"time"

	"github.com/cuemby/netvisor/pkg/bucket"
	"github.com/cuemby/netvisor/pkg/metric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countBucket is a minimal bucket.Bucket used only to exercise the ring
// manager's rotation and ingest protocols without pulling in a concrete
// handler package.
type countBucket struct {
	bucket.Base
	events *metric.Counter
}

func newCountBucket() *countBucket {
	b := &countBucket{Base: bucket.NewBase(time.Now())}
	b.events = metric.NewCounter("test", []string{"events"}, "test events")
	return b
}

func (b *countBucket) OnEvent(event interface{}, deep bool) {
	b.Base.RecordEvent(deep)
	b.events.Inc()
}

func (b *countBucket) Merge(other bucket.Bucket) error {
	o := other.(*countBucket)
	ne, ns := o.EventData()
	b.MergeEventData(ne, ns)
	b.events.Merge(o.events)
	return nil
}

func (b *countBucket) ToJSON(j metric.JSONTree) {
	b.events.ToJSON(j)
}

func (b *countBucket) ToPrometheus(w metric.Writer, extra metric.LabelMap) {
	b.events.ToPrometheus(w, extra)
}

func newTestManager(t *testing.T, periods uint64) *Manager[*countBucket] {
	t.Helper()
	cfg := Config{Periods: periods, DeepSampleRate: 100, WindowSeconds: 3600}
	mgr, err := New("test", cfg, newCountBucket, nil)
	require.NoError(t, err)
	require.NoError(t, mgr.Start())
	t.Cleanup(func() { _ = mgr.Stop() })
	return mgr
}

func TestManagerLifecycle(t *testing.T) {
	mgr := newTestManager(t, 5)
	assert.True(t, mgr.Running())
}

func TestManagerIngestRejectedBeforeStart(t *testing.T) {
	mgr, err := New("test", DefaultConfig(), newCountBucket, nil)
	require.NoError(t, err)
	err = mgr.ProcessEvent(struct{}{})
	assert.Error(t, err)
}

func TestManagerIngestRejectedAfterStop(t *testing.T) {
	mgr, err := New("test", DefaultConfig(), newCountBucket, nil)
	require.NoError(t, err)
	require.NoError(t, mgr.Start())
	require.NoError(t, mgr.Stop())

	err = mgr.ProcessEvent(struct{}{})
	assert.Error(t, err)
}

func TestManagerRestartAfterStopFails(t *testing.T) {
	mgr, err := New("test", DefaultConfig(), newCountBucket, nil)
	require.NoError(t, err)
	require.NoError(t, mgr.Start())
	require.NoError(t, mgr.Stop())

	err = mgr.Start()
	assert.Error(t, err)
}

func TestManagerRotation(t *testing.T) {
	mgr := newTestManager(t, 3)

	for i := 0; i < 100; i++ {
		require.NoError(t, mgr.ProcessEvent(struct{}{}))
	}
	mgr.rotate()

	for i := 0; i < 100; i++ {
		require.NoError(t, mgr.ProcessEvent(struct{}{}))
	}
	mgr.rotate()

	for i := 0; i < 100; i++ {
		require.NoError(t, mgr.ProcessEvent(struct{}{}))
	}

	b0, ok := mgr.Bucket(0)
	require.True(t, ok)
	ne, _ := b0.EventData()
	assert.Equal(t, uint64(100), ne)

	b1, ok := mgr.Bucket(1)
	require.True(t, ok)
	ne, _ = b1.EventData()
	assert.Equal(t, uint64(100), ne)

	b2, ok := mgr.Bucket(2)
	require.True(t, ok)
	ne, _ = b2.EventData()
	assert.Equal(t, uint64(100), ne)

	merged, err := mgr.WindowMerged(3)
	require.NoError(t, err)
	ne, _ = merged.EventData()
	assert.Equal(t, uint64(300), ne)
}

func TestManagerRingCappedAtPeriodsPlusOne(t *testing.T) {
	mgr := newTestManager(t, 2)
	for i := 0; i < 5; i++ {
		mgr.rotate()
	}
	mgr.ringMu.RLock()
	n := len(mgr.ring)
	mgr.ringMu.RUnlock()
	assert.Equal(t, 3, n)
}

func TestManagerWindowMergedBeyondRetention(t *testing.T) {
	mgr := newTestManager(t, 1)
	require.NoError(t, mgr.ProcessEvent(struct{}{}))
	mgr.rotate()

	merged, err := mgr.WindowMerged(5)
	require.NoError(t, err)
	ne, _ := merged.EventData()
	assert.Equal(t, uint64(1), ne)
}

func TestManagerConcurrentIngestAndRead(t *testing.T) {
	mgr := newTestManager(t, 5)

	const workers = 8
	const perWorker = 100000

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_ = mgr.ProcessEvent(struct{}{})
			}
		}()
	}

	stopReader := make(chan struct{})
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if b, ok := mgr.Bucket(0); ok {
					b.EventData()
				}
			case <-stopReader:
				return
			}
		}
	}()

	wg.Wait()
	close(stopReader)

	b, ok := mgr.Bucket(0)
	require.True(t, ok)
	ne, _ := b.EventData()
	assert.Equal(t, uint64(workers*perWorker), ne)
}
