package dnshandler

import (
	"time"

	"github.com/cuemby/netvisor/pkg/bucket"
	"github.com/cuemby/netvisor/pkg/dns"
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
	TopN           int
}

// DefaultOptions returns the spec-mandated defaults.
func DefaultOptions() Options {
	return Options{Periods: 5, DeepSampleRate: 100, WindowSeconds: 60, TopN: 10}
}

// Handler binds raw DNS wire messages to a ring manager of dns Buckets
// (spec §4.4).
type Handler struct {
	mgr *ringmgr.Manager[*Bucket]
}

// New constructs a Handler.
func New(opts Options, broker *events.Broker) (*Handler, error) {
	cfg := ringmgr.Config{
		Periods:        opts.Periods,
		DeepSampleRate: opts.DeepSampleRate,
		WindowSeconds:  opts.WindowSeconds,
	}
	mgr, err := ringmgr.New(schemaKey, cfg, NewFactory(opts.TopN), broker)
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

// ProcessQuery decodes and ingests a raw DNS query message with no
// observed response.
func (h *Handler) ProcessQuery(wire []byte, ts time.Time) error {
	tx, err := dns.DecodeQuery(wire, ts)
	if err != nil {
		return err
	}
	return h.mgr.ProcessEvent(tx)
}

// ProcessTransaction ingests an already-decoded types.DNSTransaction,
// for callers that paired a query and response themselves.
func (h *Handler) ProcessTransaction(tx types.DNSTransaction) error {
	return h.mgr.ProcessEvent(tx)
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
		return newBucket(10), nil
	}
	return b, nil
}
