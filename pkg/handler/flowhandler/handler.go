package flowhandler

import (
	"github.com/cuemby/netvisor/pkg/bucket"
	"github.com/cuemby/netvisor/pkg/events"
	"github.com/cuemby/netvisor/pkg/metric"
	"github.com/cuemby/netvisor/pkg/metricerr"
	"github.com/cuemby/netvisor/pkg/network"
	"github.com/cuemby/netvisor/pkg/ringmgr"
	"github.com/cuemby/netvisor/pkg/types"
)

// Options configures a Handler instance (spec §6).
type Options struct {
	Periods           uint64
	DeepSampleRate    uint64
	WindowSeconds     uint64
	TopN              int
	SampleRateScaling bool
	OnlyHosts         []string
}

// DefaultOptions returns the spec-mandated defaults.
func DefaultOptions() Options {
	return Options{
		Periods:           5,
		DeepSampleRate:    100,
		WindowSeconds:     60,
		TopN:              10,
		SampleRateScaling: true,
	}
}

// Handler binds a flow input stream's decoded records to a ring manager
// of flow Buckets (spec §4.4).
type Handler struct {
	mgr *ringmgr.Manager[*Bucket]
}

// New constructs a Handler, validating Options into a *metricerr.ConfigError
// on failure (spec §7: ConfigError is raised at configure/start time).
func New(opts Options, broker *events.Broker) (*Handler, error) {
	filter, err := network.NewHostFilter(opts.OnlyHosts)
	if err != nil {
		return nil, metricerr.NewConfigError("only_hosts", err.Error())
	}

	cfg := ringmgr.Config{
		Periods:        opts.Periods,
		DeepSampleRate: opts.DeepSampleRate,
		WindowSeconds:  opts.WindowSeconds,
	}
	factory := NewFactory(opts.SampleRateScaling, filter, opts.TopN)

	mgr, err := ringmgr.New(schemaKey, cfg, factory, broker)
	if err != nil {
		return nil, err
	}
	return &Handler{mgr: mgr}, nil
}

// SchemaKey implements handler.Handler.
func (h *Handler) SchemaKey() string {
	return h.mgr.SchemaKey()
}

// Start implements handler.Handler. A flow handler has no callback to
// register with an external input stream in this module: the caller
// feeds decoded types.FlowRecord values directly via ProcessRecord, the
// same way the teacher's stream handlers bind to their own input stream
// type (spec §4.4, §9).
func (h *Handler) Start() error {
	return h.mgr.Start()
}

// Stop implements handler.Handler.
func (h *Handler) Stop() error {
	return h.mgr.Stop()
}

// ProcessRecord ingests a single decoded flow record.
func (h *Handler) ProcessRecord(rec types.FlowRecord) error {
	return h.mgr.ProcessEvent(rec)
}

// Running reports whether the handler's manager is running; backs a
// pkg/health Checker.
func (h *Handler) Running() bool {
	return h.mgr.Running()
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
		// spec §7 SnapshotUnavailable: a period beyond the retained
		// windows is not an error, it renders as an empty object.
		return newBucket(true, nil, 0), nil
	}
	return b, nil
}
