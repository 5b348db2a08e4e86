// Package config loads the YAML configuration file describing which
// handlers to run and their tunables (spec §6), following the teacher's
// convention of a gopkg.in/yaml.v3-backed struct with yaml tags
// (cmd/warren/apply.go's ResourceManifest).
package config

import (
	"fmt"
	"os"

	"github.com/cuemby/netvisor/pkg/metricerr"
	"gopkg.in/yaml.v3"
)

// HandlerConfig is the shared tunable set every handler kind reads from
// (spec §6): num_periods, deep_sample_rate, topn, sample_rate_scaling,
// only_hosts. Fields not meaningful to a given handler kind are ignored
// (e.g. pcap has no topn).
type HandlerConfig struct {
	NumPeriods        uint64   `yaml:"num_periods"`
	DeepSampleRate    uint64   `yaml:"deep_sample_rate"`
	TopN              uint64   `yaml:"topn"`
	SampleRateScaling *bool    `yaml:"sample_rate_scaling"`
	OnlyHosts         []string `yaml:"only_hosts"`
	Window            uint64   `yaml:"window"`
}

// Config is the top-level YAML document: which handlers to enable, their
// tunables, and the process-wide static label set (spec §3).
type Config struct {
	StaticLabels map[string]string        `yaml:"static_labels"`
	Handlers     map[string]HandlerConfig `yaml:"handlers"`
}

// Load reads and parses a YAML config file and validates ranges (spec §6).
// It does not apply defaults; callers apply them per handler with
// WithDefaults. Parse or validation failures are returned as
// *metricerr.ConfigError, fatal at startup (spec §7).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, metricerr.NewConfigError("path", fmt.Sprintf("cannot read %s: %v", path, err))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, metricerr.NewConfigError("yaml", err.Error())
	}

	for name, hc := range cfg.Handlers {
		if err := hc.validate(); err != nil {
			return nil, metricerr.NewConfigError(name, err.Error())
		}
	}
	return &cfg, nil
}

// WithDefaults returns a copy of hc with zero-valued fields replaced by
// the spec §6 defaults.
func (hc HandlerConfig) WithDefaults() HandlerConfig {
	if hc.NumPeriods == 0 {
		hc.NumPeriods = 5
	}
	if hc.TopN == 0 {
		hc.TopN = 10
	}
	if hc.Window == 0 {
		hc.Window = 60
	}
	if hc.SampleRateScaling == nil {
		t := true
		hc.SampleRateScaling = &t
	}
	// deep_sample_rate's spec default is 100, but 0 is also a valid
	// configured value, so it is left alone here; callers that never set
	// it should construct HandlerConfig with DeepSampleRate: 100
	// explicitly, not rely on WithDefaults.
	return hc
}

func (hc HandlerConfig) validate() error {
	if hc.NumPeriods != 0 && (hc.NumPeriods < 1 || hc.NumPeriods > 10) {
		return fmt.Errorf("num_periods must be in [1,10], got %d", hc.NumPeriods)
	}
	if hc.DeepSampleRate > 100 {
		return fmt.Errorf("deep_sample_rate must be in [0,100], got %d", hc.DeepSampleRate)
	}
	for _, h := range hc.OnlyHosts {
		if _, _, err := parseCIDR(h); err != nil {
			return fmt.Errorf("only_hosts entry %q: %w", h, err)
		}
	}
	return nil
}
