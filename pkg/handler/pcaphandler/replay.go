package pcaphandler

import (
	"net"
	"os"

	"github.com/cuemby/netvisor/pkg/types"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// ReplayFile reads every packet from a pcap file (tcpdump/libpcap format,
// as produced by original_source's test fixtures) through gopacket and
// ingests each one as a types.Packet, for offline replay and golden-value
// testing without a live capture device (spec §1: "a demo/test replay
// path", supplementing the distilled spec's live-capture-only framing).
func (h *Handler) ReplayFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader, err := pcapgo.NewReader(f)
	if err != nil {
		return 0, err
	}

	n := 0
	source := gopacket.NewPacketSource(reader, reader.LinkType())
	for pkt := range source.Packets() {
		if err := h.ProcessPacket(decodePacket(pkt)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// decodePacket extracts the direction-agnostic fields types.Packet needs
// from a gopacket.Packet: source/destination IP, L3 protocol, and wire
// length. Direction is left types.DirectionUnknown; callers that know the
// capture's ingress/egress side (e.g. a live tap bound to one interface)
// should override it afterward.
func decodePacket(pkt gopacket.Packet) types.Packet {
	out := types.Packet{
		Direction: types.DirectionUnknown,
		Length:    len(pkt.Data()),
	}

	if ip4 := pkt.Layer(layers.LayerTypeIPv4); ip4 != nil {
		v := ip4.(*layers.IPv4)
		out.L3 = types.L3IPv4
		out.SrcIP = v.SrcIP
		out.DstIP = v.DstIP
		return out
	}
	if ip6 := pkt.Layer(layers.LayerTypeIPv6); ip6 != nil {
		v := ip6.(*layers.IPv6)
		out.L3 = types.L3IPv6
		out.SrcIP = v.SrcIP
		out.DstIP = v.DstIP
		return out
	}

	out.L3 = types.L3Unknown
	out.SrcIP = net.IPv4zero
	out.DstIP = net.IPv4zero
	return out
}
