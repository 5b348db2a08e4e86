package flowhandler

import (
	"strconv"

	"github.com/cuemby/netvisor/pkg/types"
)

// portKey renders a port number as its cardinality-sketch key. Ports fit
// comfortably in a decimal string; no need for a packed binary encoding.
func portKey(port uint16) []byte {
	return []byte(strconv.Itoa(int(port)))
}

// dstPortKey renders a port number as a top-K name, matching the
// "5001"-style string names in spec §8's golden values.
func dstPortKey(port uint16) string {
	return strconv.Itoa(int(port))
}

// srcIPPortKey renders a "ip:port" top-K name for the
// top_src_ips_and_port_bytes field.
func srcIPPortKey(rec types.FlowRecord) string {
	return rec.SrcIP.String() + ":" + strconv.Itoa(int(rec.SrcPort))
}
