package pcaphandler

import (
	"testing"

	"github.com/cuemby/netvisor/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := New(DefaultOptions(), nil)
	require.NoError(t, err)
	require.NoError(t, h.Start())
	t.Cleanup(func() { _ = h.Stop() })
	return h
}

func TestPcapHandlerTCPReassemblyErrors(t *testing.T) {
	h := newTestHandler(t)

	require.NoError(t, h.ProcessTCPReassemblyError())
	require.NoError(t, h.ProcessTCPReassemblyError())

	j, err := h.WindowJSON(0, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, j["tcp_reassembly_errors"])
}

func TestPcapHandlerDeviceStatsDelta(t *testing.T) {
	h := newTestHandler(t)

	require.NoError(t, h.ProcessDeviceStats(types.DeviceStats{OSDrops: 100, InterfaceDrops: 5}))
	j, err := h.WindowJSON(0, false)
	require.NoError(t, err)
	assert.EqualValues(t, 0, j["os_drops"], "first reading establishes baseline only")

	require.NoError(t, h.ProcessDeviceStats(types.DeviceStats{OSDrops: 130, InterfaceDrops: 9}))
	j, err = h.WindowJSON(0, false)
	require.NoError(t, err)
	assert.EqualValues(t, 30, j["os_drops"])
	assert.EqualValues(t, 4, j["if_drops"])
}

func TestPcapHandlerPacketCountsTowardNumEvents(t *testing.T) {
	h := newTestHandler(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, h.ProcessPacket(types.Packet{Length: 64}))
	}

	b, ok := h.mgr.Bucket(0)
	require.True(t, ok)
	ne, _ := b.EventData()
	assert.EqualValues(t, 5, ne)
}
