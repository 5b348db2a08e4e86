// Package pcaphandler implements the pcap schema (spec §6): raw packet
// capture counters plus the OS/interface drop counters reported by the
// capture device. Grounded on
// original_source/src/handlers/pcap/PcapStreamHandler.h, which names the
// exact three counters this bucket reproduces
// (pcap_TCP_reassembly_errors, pcap_os_drop, pcap_if_drop).
package pcaphandler

import (
	"time"

	"github.com/cuemby/netvisor/pkg/bucket"
	"github.com/cuemby/netvisor/pkg/metric"
)

const schemaKey = "pcap"

// tcpReassemblyError is the event type OnEvent expects for a TCP stream
// reassembly failure observed by the capture's own decoder.
type tcpReassemblyError struct{}

// TCPReassemblyError is an exported tcpReassemblyError value. Callers
// outside this package report one through Handler.ProcessTCPReassemblyError.
var TCPReassemblyError = tcpReassemblyError{}

// deviceStatsDelta carries the OS/interface drop deltas computed by the
// Handler against its remembered prior DeviceStats reading (spec §6).
type deviceStatsDelta struct {
	osDrops uint64
	ifDrops uint64
}

// Bucket is the pcap handler's concrete window aggregate.
type Bucket struct {
	bucket.Base

	tcpReassemblyErrors *metric.Counter
	osDrops             *metric.Counter
	ifDrops             *metric.Counter
}

// NewFactory returns a ringmgr.Factory[*Bucket].
func NewFactory() func() *Bucket {
	return newBucket
}

func newBucket() *Bucket {
	return &Bucket{
		Base:                bucket.NewBase(time.Now()),
		tcpReassemblyErrors: metric.NewCounter(schemaKey, []string{"tcp_reassembly_errors"}, "Count of TCP reassembly errors"),
		osDrops:             metric.NewCounter(schemaKey, []string{"os_drops"}, "Count of packets dropped by the operating system"),
		ifDrops:             metric.NewCounter(schemaKey, []string{"if_drops"}, "Count of packets dropped by the capture interface"),
	}
}

// OnEvent implements bucket.Bucket. event is one of tcpReassemblyError or
// deviceStatsDelta; any other payload (e.g. a types.Packet) is counted
// toward num_events/num_samples only, since packet dissection is out of
// scope (spec §1 Non-goals).
func (b *Bucket) OnEvent(event interface{}, deep bool) {
	b.Base.RecordEvent(deep)

	switch e := event.(type) {
	case tcpReassemblyError:
		b.tcpReassemblyErrors.Inc()
	case deviceStatsDelta:
		b.osDrops.Add(e.osDrops)
		b.ifDrops.Add(e.ifDrops)
	}
}

// Merge implements bucket.Bucket.
func (b *Bucket) Merge(other bucket.Bucket) error {
	o, ok := other.(*Bucket)
	if !ok {
		return nil
	}
	ne, ns := o.EventData()
	b.Base.MergeEventData(ne, ns)

	b.tcpReassemblyErrors.Merge(o.tcpReassemblyErrors)
	b.osDrops.Merge(o.osDrops)
	b.ifDrops.Merge(o.ifDrops)
	return nil
}

// ToJSON implements bucket.Bucket.
func (b *Bucket) ToJSON(j metric.JSONTree) {
	b.tcpReassemblyErrors.ToJSON(j)
	b.osDrops.ToJSON(j)
	b.ifDrops.ToJSON(j)
}

// ToPrometheus implements bucket.Bucket.
func (b *Bucket) ToPrometheus(w metric.Writer, extra metric.LabelMap) {
	b.tcpReassemblyErrors.ToPrometheus(w, extra)
	b.osDrops.ToPrometheus(w, extra)
	b.ifDrops.ToPrometheus(w, extra)
}
