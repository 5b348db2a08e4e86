// Package flowhandler implements the flow schema (spec §6): sFlow and
// NetFlow/IPFIX samples, counted by L3/L4 protocol, broken out by
// top-talker IP/port and cardinality, with a payload-size quantile
// sketch. Grounded on original_source/src/handlers/flow/tests/test_flows.cpp,
// which enumerates the counter/cardinality/top-K field set this bucket
// reproduces.
package flowhandler

import (
	"time"

	"github.com/cuemby/netvisor/pkg/bucket"
	"github.com/cuemby/netvisor/pkg/metric"
	"github.com/cuemby/netvisor/pkg/network"
	"github.com/cuemby/netvisor/pkg/types"
)

const schemaKey = "flow"

// Bucket is the flow handler's concrete window aggregate.
type Bucket struct {
	bucket.Base

	sampleRateScaling bool
	hostFilter        *network.HostFilter

	counters struct {
		tcp      *metric.Counter
		udp      *metric.Counter
		ipv4     *metric.Counter
		ipv6     *metric.Counter
		otherL4  *metric.Counter
		filtered *metric.Counter
		total    *metric.Counter
	}

	cardinality struct {
		dstIPsOut   *metric.Cardinality
		srcIPsIn    *metric.Cardinality
		dstPortsOut *metric.Cardinality
		srcPortsIn  *metric.Cardinality
	}

	topK struct {
		srcIPsBytes        *metric.TopK
		srcIPsPackets      *metric.TopK
		dstPortsBytes      *metric.TopK
		srcIPsAndPortBytes *metric.TopK
	}

	payloadSize *metric.Quantile
}

// NewFactory returns a ringmgr.Factory[*Bucket] bound to the given
// runtime options, so every bucket in a manager's ring shares the same
// sample_rate_scaling/only_hosts configuration (spec §6).
func NewFactory(sampleRateScaling bool, hostFilter *network.HostFilter, topn int) func() *Bucket {
	return func() *Bucket {
		return newBucket(sampleRateScaling, hostFilter, topn)
	}
}

func newBucket(sampleRateScaling bool, hostFilter *network.HostFilter, topn int) *Bucket {
	b := &Bucket{
		Base:              bucket.NewBase(time.Now()),
		sampleRateScaling: sampleRateScaling,
		hostFilter:        hostFilter,
	}

	b.counters.tcp = metric.NewCounter(schemaKey, []string{"tcp"}, "Count of TCP packets/flows")
	b.counters.udp = metric.NewCounter(schemaKey, []string{"udp"}, "Count of UDP packets/flows")
	b.counters.ipv4 = metric.NewCounter(schemaKey, []string{"ipv4"}, "Count of IPv4 packets/flows")
	b.counters.ipv6 = metric.NewCounter(schemaKey, []string{"ipv6"}, "Count of IPv6 packets/flows")
	b.counters.otherL4 = metric.NewCounter(schemaKey, []string{"other_l4"}, "Count of non-TCP/UDP transport packets/flows")
	b.counters.filtered = metric.NewCounter(schemaKey, []string{"filtered"}, "Count of flows excluded by only_hosts")
	b.counters.total = metric.NewCounter(schemaKey, []string{"total"}, "Count of flows counted toward protocol breakdowns")

	b.cardinality.dstIPsOut = metric.NewCardinality(schemaKey, []string{"cardinality", "dst_ips_out"}, "Estimated distinct outbound destination IPs")
	b.cardinality.srcIPsIn = metric.NewCardinality(schemaKey, []string{"cardinality", "src_ips_in"}, "Estimated distinct inbound source IPs")
	b.cardinality.dstPortsOut = metric.NewCardinality(schemaKey, []string{"cardinality", "dst_ports_out"}, "Estimated distinct outbound destination ports")
	b.cardinality.srcPortsIn = metric.NewCardinality(schemaKey, []string{"cardinality", "src_ports_in"}, "Estimated distinct inbound source ports")

	if topn <= 0 {
		topn = 10
	}
	b.topK.srcIPsBytes = metric.NewTopK(schemaKey, []string{"top_src_ips_bytes"}, "Top source IPs by byte count", topn)
	b.topK.srcIPsPackets = metric.NewTopK(schemaKey, []string{"top_src_ips_packets"}, "Top source IPs by packet count", topn)
	b.topK.dstPortsBytes = metric.NewTopK(schemaKey, []string{"top_dst_ports_bytes"}, "Top destination ports by byte count", topn)
	b.topK.srcIPsAndPortBytes = metric.NewTopK(schemaKey, []string{"top_src_ips_and_port_bytes"}, "Top source IP:port pairs by byte count", topn)

	b.payloadSize = metric.NewQuantile(schemaKey, []string{"payload_size"}, "Distribution of scaled flow byte counts")

	return b
}

// OnEvent implements bucket.Bucket. event must be a types.FlowRecord.
func (b *Bucket) OnEvent(event interface{}, deep bool) {
	rec, ok := event.(types.FlowRecord)
	if !ok {
		return
	}
	b.Base.RecordEvent(deep)

	if b.hostFilter != nil && !b.hostFilter.Matches(rec.SrcIP, rec.DstIP) {
		b.counters.filtered.Inc()
		return
	}

	switch rec.L3 {
	case types.L3IPv4:
		b.counters.ipv4.Inc()
	case types.L3IPv6:
		b.counters.ipv6.Inc()
	}

	switch rec.L4 {
	case types.L4TCP:
		b.counters.tcp.Inc()
	case types.L4UDP:
		b.counters.udp.Inc()
	default:
		b.counters.otherL4.Inc()
	}
	b.counters.total.Inc()

	if !deep {
		return
	}

	bytes := rec.ScaledByteCount(b.sampleRateScaling)
	packets := rec.ScaledPacketCount(b.sampleRateScaling)

	if rec.DstIP != nil {
		b.cardinality.dstIPsOut.Update(rec.DstIP)
	}
	if rec.SrcIP != nil {
		b.cardinality.srcIPsIn.Update(rec.SrcIP)
	}
	if rec.DstPort != 0 {
		b.cardinality.dstPortsOut.Update(portKey(rec.DstPort))
	}
	if rec.SrcPort != 0 {
		b.cardinality.srcPortsIn.Update(portKey(rec.SrcPort))
	}

	if rec.SrcIP != nil {
		b.topK.srcIPsBytes.Update(rec.SrcIP.String(), bytes)
		b.topK.srcIPsPackets.Update(rec.SrcIP.String(), packets)
		b.topK.srcIPsAndPortBytes.Update(srcIPPortKey(rec), bytes)
	}
	if rec.DstPort != 0 {
		b.topK.dstPortsBytes.Update(dstPortKey(rec.DstPort), bytes)
	}

	b.payloadSize.Update(float64(bytes))
}

// Merge implements bucket.Bucket.
func (b *Bucket) Merge(other bucket.Bucket) error {
	o, ok := other.(*Bucket)
	if !ok {
		return nil
	}

	ne, ns := o.EventData()
	b.Base.MergeEventData(ne, ns)

	b.counters.tcp.Merge(o.counters.tcp)
	b.counters.udp.Merge(o.counters.udp)
	b.counters.ipv4.Merge(o.counters.ipv4)
	b.counters.ipv6.Merge(o.counters.ipv6)
	b.counters.otherL4.Merge(o.counters.otherL4)
	b.counters.filtered.Merge(o.counters.filtered)
	b.counters.total.Merge(o.counters.total)

	if err := b.cardinality.dstIPsOut.Merge(o.cardinality.dstIPsOut); err != nil {
		return err
	}
	if err := b.cardinality.srcIPsIn.Merge(o.cardinality.srcIPsIn); err != nil {
		return err
	}
	if err := b.cardinality.dstPortsOut.Merge(o.cardinality.dstPortsOut); err != nil {
		return err
	}
	if err := b.cardinality.srcPortsIn.Merge(o.cardinality.srcPortsIn); err != nil {
		return err
	}

	b.topK.srcIPsBytes.Merge(o.topK.srcIPsBytes)
	b.topK.srcIPsPackets.Merge(o.topK.srcIPsPackets)
	b.topK.dstPortsBytes.Merge(o.topK.dstPortsBytes)
	b.topK.srcIPsAndPortBytes.Merge(o.topK.srcIPsAndPortBytes)

	return b.payloadSize.Merge(o.payloadSize)
}

// ToJSON implements bucket.Bucket.
func (b *Bucket) ToJSON(j metric.JSONTree) {
	b.counters.tcp.ToJSON(j)
	b.counters.udp.ToJSON(j)
	b.counters.ipv4.ToJSON(j)
	b.counters.ipv6.ToJSON(j)
	b.counters.otherL4.ToJSON(j)
	b.counters.filtered.ToJSON(j)
	b.counters.total.ToJSON(j)

	b.cardinality.dstIPsOut.ToJSON(j)
	b.cardinality.srcIPsIn.ToJSON(j)
	b.cardinality.dstPortsOut.ToJSON(j)
	b.cardinality.srcPortsIn.ToJSON(j)

	b.topK.srcIPsBytes.ToJSON(j)
	b.topK.srcIPsPackets.ToJSON(j)
	b.topK.dstPortsBytes.ToJSON(j)
	b.topK.srcIPsAndPortBytes.ToJSON(j)

	b.payloadSize.ToJSON(j)
}

// ToPrometheus implements bucket.Bucket.
func (b *Bucket) ToPrometheus(w metric.Writer, extra metric.LabelMap) {
	b.counters.tcp.ToPrometheus(w, extra)
	b.counters.udp.ToPrometheus(w, extra)
	b.counters.ipv4.ToPrometheus(w, extra)
	b.counters.ipv6.ToPrometheus(w, extra)
	b.counters.otherL4.ToPrometheus(w, extra)
	b.counters.filtered.ToPrometheus(w, extra)
	b.counters.total.ToPrometheus(w, extra)

	b.cardinality.dstIPsOut.ToPrometheus(w, extra)
	b.cardinality.srcIPsIn.ToPrometheus(w, extra)
	b.cardinality.dstPortsOut.ToPrometheus(w, extra)
	b.cardinality.srcPortsIn.ToPrometheus(w, extra)

	b.topK.srcIPsBytes.ToPrometheus(w, extra)
	b.topK.srcIPsPackets.ToPrometheus(w, extra)
	b.topK.dstPortsBytes.ToPrometheus(w, extra)
	b.topK.srcIPsAndPortBytes.ToPrometheus(w, extra)

	b.payloadSize.ToPrometheus(w, extra)
}
