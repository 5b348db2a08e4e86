package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "netvisor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
static_labels:
  region: us-east-1
handlers:
  flow:
    num_periods: 3
    deep_sample_rate: 50
    topn: 20
    only_hosts:
      - 10.4.3.2/24
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", cfg.StaticLabels["region"])

	flow := cfg.Handlers["flow"]
	assert.EqualValues(t, 3, flow.NumPeriods)
	assert.EqualValues(t, 50, flow.DeepSampleRate)
	assert.EqualValues(t, 20, flow.TopN)
}

func TestLoadRejectsOutOfRangePeriods(t *testing.T) {
	path := writeConfig(t, `
handlers:
  flow:
    num_periods: 20
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadCIDR(t *testing.T) {
	path := writeConfig(t, `
handlers:
  flow:
    only_hosts:
      - not-a-cidr
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestWithDefaults(t *testing.T) {
	hc := HandlerConfig{}.WithDefaults()
	assert.EqualValues(t, 5, hc.NumPeriods)
	assert.EqualValues(t, 10, hc.TopN)
	assert.EqualValues(t, 60, hc.Window)
	require.NotNil(t, hc.SampleRateScaling)
	assert.True(t, *hc.SampleRateScaling)
}
