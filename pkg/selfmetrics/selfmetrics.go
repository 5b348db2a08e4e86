// Package selfmetrics tracks the pipeline process's own health using
// github.com/prometheus/client_golang, kept deliberately separate from
// the bespoke per-bucket exposition format in pkg/metric: domain
// primitives (Rate/Quantile/Cardinality/TopK) don't map cleanly onto the
// client library's Collector/Desc model, but the ambient process and
// lifecycle counters do, following the teacher's own
// pkg/metrics/metrics.go convention of a package-level prometheus.*Vec
// set registered once and served over promhttp.
package selfmetrics

import (
	"net/http"

	"github.com/cuemby/netvisor/pkg/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is a dedicated package-level registry, not the global
// DefaultRegisterer, so its collectors never collide with anything else
// registered process-wide.
var Registry = prometheus.NewRegistry()

var (
	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netvisor_pipeline_events_total",
			Help: "Lifecycle events observed on the handler event broker, by type",
		},
		[]string{"type"},
	)

	BucketRotationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netvisor_bucket_rotations_total",
			Help: "Ring bucket rotations completed, by schema key",
		},
		[]string{"schema_key"},
	)

	HandlersRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "netvisor_handlers_running",
			Help: "Number of handlers currently started",
		},
	)
)

func init() {
	Registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		EventsTotal,
		BucketRotationsTotal,
		HandlersRunning,
	)
}

// Handler returns an http.Handler serving Registry in Prometheus text
// format, intended to be mounted at a path like /selfmetrics alongside
// the domain-metrics /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Subscribe feeds a broker's published events into EventsTotal and
// BucketRotationsTotal until the broker is stopped. It runs in its own
// goroutine and returns immediately.
func Subscribe(broker *events.Broker) {
	sub := broker.Subscribe()
	go func() {
		for ev := range sub {
			EventsTotal.WithLabelValues(string(ev.Type)).Inc()
			if ev.Type == events.EventBucketRotated {
				BucketRotationsTotal.WithLabelValues(ev.SchemaKey).Inc()
			}
		}
	}()
}
