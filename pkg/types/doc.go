/*
Package types defines the plain data structures a handler's input stream
hands to its ingest callbacks: decoded packets, flow records, DNS
transactions, and capture-device drop-counter snapshots (spec §6).

These types carry no behavior beyond the small scaling helpers on
FlowRecord; decoding wire formats into them is each handler's own
responsibility (pkg/dns for DNS, pkg/handler/pcaphandler for pcap).

# Usage

Feeding a flow handler:

	rec := types.FlowRecord{
		SrcIP: net.ParseIP("10.0.0.1"), DstIP: net.ParseIP("10.0.0.2"),
		SrcPort: 51000, DstPort: 443,
		L3: types.L3IPv4, L4: types.L4TCP,
		ByteCount: 1518, PacketCount: 1, SamplingRate: 1000,
	}
	_ = flowHandler.ProcessRecord(rec)

All types here are safe to read concurrently once constructed; none are
mutated after being handed to a handler.
*/
package types
