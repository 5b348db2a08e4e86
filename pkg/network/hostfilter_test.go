package network

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostFilterDisabledMatchesEverything(t *testing.T) {
	f, err := NewHostFilter(nil)
	require.NoError(t, err)
	assert.False(t, f.Enabled())
	assert.True(t, f.Matches(net.ParseIP("8.8.8.8"), net.ParseIP("1.1.1.1")))
}

func TestHostFilterMatchesWhenEitherSideInPrefix(t *testing.T) {
	f, err := NewHostFilter([]string{"10.0.0.0/24"})
	require.NoError(t, err)
	require.True(t, f.Enabled())

	assert.True(t, f.Matches(net.ParseIP("10.0.0.5"), net.ParseIP("8.8.8.8")))
	assert.True(t, f.Matches(net.ParseIP("8.8.8.8"), net.ParseIP("10.0.0.5")))
}

func TestHostFilterRejectsBothOutside(t *testing.T) {
	f, err := NewHostFilter([]string{"10.0.0.0/24"})
	require.NoError(t, err)
	assert.False(t, f.Matches(net.ParseIP("8.8.8.8"), net.ParseIP("1.1.1.1")))
}

func TestHostFilterHandlesNilAddress(t *testing.T) {
	f, err := NewHostFilter([]string{"10.0.0.0/24"})
	require.NoError(t, err)
	assert.False(t, f.Matches(nil, net.ParseIP("8.8.8.8")))
	assert.True(t, f.Matches(nil, net.ParseIP("10.0.0.1")))
}

func TestHostFilterInvalidCIDRErrors(t *testing.T) {
	_, err := NewHostFilter([]string{"not-a-cidr"})
	assert.Error(t, err)
}

func TestHostFilterMultiplePrefixes(t *testing.T) {
	f, err := NewHostFilter([]string{"10.0.0.0/24", "192.168.1.0/24"})
	require.NoError(t, err)
	assert.True(t, f.Matches(net.ParseIP("192.168.1.10"), net.ParseIP("8.8.8.8")))
}
