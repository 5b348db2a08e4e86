/*
Package network implements the only_hosts filter (spec §6): a configured
list of CIDR prefixes that narrows metrics collection to traffic touching
those networks.

When only_hosts is non-empty, a flow or packet event is counted only if at
least one of its source or destination addresses falls inside one of the
configured prefixes; events where both endpoints fall outside are counted
in a bucket's filtered counter instead of its normal primitives (spec §4.2,
§6). An empty only_hosts list disables filtering: every event is counted
normally.

# Usage

	filter, err := network.NewHostFilter([]string{"10.4.3.2/24"})
	if err != nil {
		return err
	}
	if filter.Matches(flow.SrcIP, flow.DstIP) {
		// count normally
	} else {
		// count in filtered
	}
*/
package network
