package flowhandler

import (
	"net"
	"testing"

	"github.com/cuemby/netvisor/pkg/metricerr"
	"github.com/cuemby/netvisor/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnparsableOnlyHostsAsConfigError(t *testing.T) {
	opts := DefaultOptions()
	opts.OnlyHosts = []string{"not-a-cidr"}

	_, err := New(opts, nil)
	require.Error(t, err)
	var cfgErr *metricerr.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

// Exact byte-for-byte reproduction of the golden scenarios in spec §8
// requires replaying the original ecmp.pcap/nf9.pcap capture files,
// which are not part of this repository (see DESIGN.md). These tests
// instead exercise the same properties the golden scenarios check:
// protocol counters, the only_hosts filtered/total split, and
// sample_rate_scaling, against a small synthetic record set.

func rec(src, dst string, srcPort, dstPort uint16, l3 types.L3Protocol, l4 types.L4Protocol, samplingRate uint32, bytesCount, packets uint64) types.FlowRecord {
	return types.FlowRecord{
		SamplingRate: samplingRate,
		ByteCount:    bytesCount,
		PacketCount:  packets,
		SrcIP:        net.ParseIP(src),
		DstIP:        net.ParseIP(dst),
		SrcPort:      srcPort,
		DstPort:      dstPort,
		L3:           l3,
		L4:           l4,
	}
}

func newTestHandler(t *testing.T, opts Options) *Handler {
	t.Helper()
	h, err := New(opts, nil)
	require.NoError(t, err)
	require.NoError(t, h.Start())
	t.Cleanup(func() { _ = h.Stop() })
	return h
}

func TestFlowHandlerCountersByProtocol(t *testing.T) {
	h := newTestHandler(t, DefaultOptions())

	records := []types.FlowRecord{
		rec("10.4.1.2", "10.4.2.2", 40000, 5001, types.L3IPv4, types.L4TCP, 15000, 52, 1),
		rec("10.4.1.2", "10.4.2.3", 40001, 5001, types.L3IPv4, types.L4TCP, 15000, 52, 1),
		rec("10.4.3.2", "10.4.2.2", 40268, 5001, types.L3IPv4, types.L4TCP, 15000, 52, 1),
	}
	for _, r := range records {
		require.NoError(t, h.ProcessRecord(r))
	}

	j, err := h.WindowJSON(0, false)
	require.NoError(t, err)

	assert.EqualValues(t, 3, j["tcp"])
	assert.EqualValues(t, 0, j["udp"])
	assert.EqualValues(t, 3, j["ipv4"])
	assert.EqualValues(t, 3, j["total"])
	assert.EqualValues(t, 0, j["filtered"])
}

func TestFlowHandlerOnlyHostsFiltersOutsideTraffic(t *testing.T) {
	opts := DefaultOptions()
	opts.OnlyHosts = []string{"10.4.3.0/24"}
	h := newTestHandler(t, opts)

	inside := rec("10.4.3.2", "10.4.9.9", 1, 2, types.L3IPv4, types.L4TCP, 1, 100, 1)
	outside := rec("10.4.1.2", "10.4.2.2", 1, 2, types.L3IPv4, types.L4TCP, 1, 100, 1)

	require.NoError(t, h.ProcessRecord(inside))
	require.NoError(t, h.ProcessRecord(outside))

	j, err := h.WindowJSON(0, false)
	require.NoError(t, err)

	assert.EqualValues(t, 1, j["total"])
	assert.EqualValues(t, 1, j["filtered"])
}

func TestFlowHandlerSampleRateScalingTogglesByteCount(t *testing.T) {
	scaled := DefaultOptions()
	scaled.SampleRateScaling = true
	hScaled := newTestHandler(t, scaled)

	unscaled := DefaultOptions()
	unscaled.SampleRateScaling = false
	hUnscaled := newTestHandler(t, unscaled)

	r := rec("10.4.1.2", "10.4.2.2", 1, 5001, types.L3IPv4, types.L4TCP, 1000, 1518, 1)
	require.NoError(t, hScaled.ProcessRecord(r))
	require.NoError(t, hUnscaled.ProcessRecord(r))

	jScaled, err := hScaled.WindowJSON(0, false)
	require.NoError(t, err)
	jUnscaled, err := hUnscaled.WindowJSON(0, false)
	require.NoError(t, err)

	scaledTop := jScaled["top_src_ips_bytes"].([]map[string]interface{})
	unscaledTop := jUnscaled["top_src_ips_bytes"].([]map[string]interface{})
	require.Len(t, scaledTop, 1)
	require.Len(t, unscaledTop, 1)

	assert.EqualValues(t, 1518*1000, scaledTop[0]["estimate"])
	assert.EqualValues(t, 1518, unscaledTop[0]["estimate"])
}
