package pcaphandler

import (
	"sync"

	"github.com/cuemby/netvisor/pkg/bucket"
	"github.com/cuemby/netvisor/pkg/events"
	"github.com/cuemby/netvisor/pkg/metric"
	"github.com/cuemby/netvisor/pkg/ringmgr"
	"github.com/cuemby/netvisor/pkg/types"
)

// Options configures a Handler instance (spec §6).
type Options struct {
	Periods        uint64
	DeepSampleRate uint64
	WindowSeconds  uint64
}

// DefaultOptions returns the spec-mandated defaults.
func DefaultOptions() Options {
	return Options{Periods: 5, DeepSampleRate: 100, WindowSeconds: 60}
}

// Handler binds a packet capture's device stats and per-packet events to
// a ring manager of pcap Buckets (spec §4.4).
type Handler struct {
	mgr *ringmgr.Manager[*Bucket]

	statsMu  sync.Mutex
	lastOS   uint64
	lastIf   uint64
	haveLast bool
}

// New constructs a Handler.
func New(opts Options, broker *events.Broker) (*Handler, error) {
	cfg := ringmgr.Config{
		Periods:        opts.Periods,
		DeepSampleRate: opts.DeepSampleRate,
		WindowSeconds:  opts.WindowSeconds,
	}
	mgr, err := ringmgr.New(schemaKey, cfg, NewFactory(), broker)
	if err != nil {
		return nil, err
	}
	return &Handler{mgr: mgr}, nil
}

// SchemaKey implements handler.Handler.
func (h *Handler) SchemaKey() string {
	return h.mgr.SchemaKey()
}

// Start implements handler.Handler.
func (h *Handler) Start() error {
	return h.mgr.Start()
}

// Stop implements handler.Handler.
func (h *Handler) Stop() error {
	return h.mgr.Stop()
}

// Running reports whether the handler's manager is running.
func (h *Handler) Running() bool {
	return h.mgr.Running()
}

// ProcessPacket ingests a single decoded packet. Packet payload fields
// beyond what types.Packet carries are out of scope (spec §1 Non-goals);
// this only advances num_events/num_samples.
func (h *Handler) ProcessPacket(pkt types.Packet) error {
	return h.mgr.ProcessEvent(pkt)
}

// ProcessTCPReassemblyError reports a TCP stream reassembly failure.
func (h *Handler) ProcessTCPReassemblyError() error {
	return h.mgr.ProcessEvent(tcpReassemblyError{})
}

// ProcessDeviceStats reports a capture device's current monotonic
// OS/interface drop counters (spec §6's on_device_stats), computing the
// delta against the previously remembered reading itself. The first call
// establishes the baseline and emits no delta.
func (h *Handler) ProcessDeviceStats(stats types.DeviceStats) error {
	h.statsMu.Lock()
	if !h.haveLast {
		h.lastOS = stats.OSDrops
		h.lastIf = stats.InterfaceDrops
		h.haveLast = true
		h.statsMu.Unlock()
		return nil
	}

	var osDelta, ifDelta uint64
	if stats.OSDrops >= h.lastOS {
		osDelta = stats.OSDrops - h.lastOS
	}
	if stats.InterfaceDrops >= h.lastIf {
		ifDelta = stats.InterfaceDrops - h.lastIf
	}
	h.lastOS = stats.OSDrops
	h.lastIf = stats.InterfaceDrops
	h.statsMu.Unlock()

	if osDelta == 0 && ifDelta == 0 {
		return nil
	}
	return h.mgr.ProcessEvent(deviceStatsDelta{osDrops: osDelta, ifDrops: ifDelta})
}

// WindowJSON implements handler.Handler.
func (h *Handler) WindowJSON(period int, merged bool) (metric.JSONTree, error) {
	b, err := h.window(period, merged)
	if err != nil {
		return nil, err
	}
	j := metric.JSONTree{}
	b.ToJSON(j)
	return j, nil
}

// WindowPrometheus implements handler.Handler.
func (h *Handler) WindowPrometheus(w metric.Writer, period int, merged bool) error {
	b, err := h.window(period, merged)
	if err != nil {
		return err
	}
	b.ToPrometheus(w, nil)
	return nil
}

func (h *Handler) window(period int, merged bool) (bucket.Bucket, error) {
	if merged {
		return h.mgr.WindowMerged(period)
	}
	b, ok := h.mgr.Bucket(period)
	if !ok {
		return newBucket(), nil
	}
	return b, nil
}
