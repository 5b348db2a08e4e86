package network

import (
	"fmt"
	"net"
)

// HostFilter implements the only_hosts configuration option (spec §6): a
// set of CIDR prefixes that, when non-empty, restricts metrics collection
// to events touching at least one of the configured networks.
type HostFilter struct {
	nets []*net.IPNet
}

// NewHostFilter parses a list of CIDR strings into a HostFilter. An empty
// or nil list yields a filter that matches everything (only_hosts
// disabled).
func NewHostFilter(cidrs []string) (*HostFilter, error) {
	f := &HostFilter{nets: make([]*net.IPNet, 0, len(cidrs))}
	for _, c := range cidrs {
		_, ipnet, err := net.ParseCIDR(c)
		if err != nil {
			return nil, fmt.Errorf("network: invalid only_hosts entry %q: %w", c, err)
		}
		f.nets = append(f.nets, ipnet)
	}
	return f, nil
}

// Enabled reports whether any CIDR prefixes were configured. When false,
// Matches always returns true and handlers should not increment filtered.
func (f *HostFilter) Enabled() bool {
	return len(f.nets) > 0
}

// Matches reports whether src or dst falls inside any configured prefix
// (spec §4.3's "events with both src&dst outside set counted in filtered,
// skipped elsewhere"). Either address may be nil, e.g. flow records that
// carry only one endpoint.
func (f *HostFilter) Matches(src, dst net.IP) bool {
	if !f.Enabled() {
		return true
	}
	return f.contains(src) || f.contains(dst)
}

func (f *HostFilter) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, n := range f.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
