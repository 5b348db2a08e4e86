// Package types defines the external event types a handler's input stream
// hands to a handler's callback (spec §6): packets, flow records, DNS
// transactions and device statistics. These are plain data, not behavior;
// handlers decode their own wire formats and populate these structs before
// invoking a manager's ProcessEvent.
package types

import (
	"net"
	"time"
)

// Direction reports which side of a tap a packet or flow crossed.
type Direction string

const (
	DirectionUnknown  Direction = "unknown"
	DirectionInbound  Direction = "in"
	DirectionOutbound Direction = "out"
)

// L3Protocol is the network-layer protocol of an observed packet or flow.
type L3Protocol string

const (
	L3Unknown L3Protocol = "unknown"
	L3IPv4    L3Protocol = "ipv4"
	L3IPv6    L3Protocol = "ipv6"
)

// L4Protocol is the transport-layer protocol, used by flow handlers to pick
// the TCP/UDP/OtherL4 counter bucket.
type L4Protocol string

const (
	L4Unknown L4Protocol = "unknown"
	L4TCP     L4Protocol = "tcp"
	L4UDP     L4Protocol = "udp"
	L4Other   L4Protocol = "other"
)

// Packet is the minimal decoded view of a captured packet a pcap handler's
// ProcessPacket method receives; payload decoding beyond this is out of scope
// (spec §1 Non-goals).
type Packet struct {
	SrcIP     net.IP
	DstIP     net.IP
	L3        L3Protocol
	Direction Direction
	Length    int
}

// FlowRecord is a single sFlow or NetFlow/IPFIX flow sample, already
// decoded by the flow handler's own wire-format reader (spec §6).
type FlowRecord struct {
	SamplingRate uint32
	ByteCount    uint64
	PacketCount  uint64

	SrcIP   net.IP
	DstIP   net.IP
	SrcPort uint16
	DstPort uint16

	L3 L3Protocol
	L4 L4Protocol
}

// ScaledByteCount returns ByteCount multiplied by SamplingRate when
// sampleRateScaling is enabled (spec §6 configuration), or the raw
// ByteCount otherwise. A zero SamplingRate is treated as 1 (unsampled).
func (r FlowRecord) ScaledByteCount(sampleRateScaling bool) uint64 {
	if !sampleRateScaling {
		return r.ByteCount
	}
	rate := r.SamplingRate
	if rate == 0 {
		rate = 1
	}
	return r.ByteCount * uint64(rate)
}

// ScaledPacketCount returns PacketCount scaled the same way as
// ScaledByteCount.
func (r FlowRecord) ScaledPacketCount(sampleRateScaling bool) uint64 {
	if !sampleRateScaling {
		return r.PacketCount
	}
	rate := r.SamplingRate
	if rate == 0 {
		rate = 1
	}
	return r.PacketCount * uint64(rate)
}

// DNSTransaction pairs a decoded DNS query with its response, if one was
// observed, as handed to a dns handler's ProcessTransaction method.
type DNSTransaction struct {
	QName     string
	QType     uint16
	RCode     int
	WireSize  int
	HasReply  bool
	Timestamp time.Time
	Flags     DNSFlags
}

// DNSFlags carries the header bits a dns handler may want to break metrics
// out by (e.g. counting queries separately from responses).
type DNSFlags struct {
	IsQuery      bool
	IsResponse   bool
	Truncated    bool
	RecursionReq bool
}

// DeviceStats is a snapshot of OS/interface drop counters (spec §6); these
// are monotonic counters maintained by the capture device, and a pcap
// handler computes the delta against the previously remembered value
// itself (spec §6's "deltas computed by core against remembered prior
// value").
type DeviceStats struct {
	OSDrops        uint64
	InterfaceDrops uint64
}
