package ringmgr

import "github.com/cuemby/netvisor/pkg/metricerr"

// Config holds the per-handler tunables of spec §6.
type Config struct {
	// Periods is the number of finalized windows retained in addition to
	// the live bucket (spec §3: "ring of periods+1 buckets"). Valid
	// range [1,10], default 5.
	Periods uint64

	// DeepSampleRate is the percentage [0,100] of events gated into
	// cardinality/top-K/payload primitives. Default 100 (every event is
	// deep-sampled).
	DeepSampleRate uint64

	// WindowSeconds is the rotation interval. Default 60, matching spec
	// §3's "60s rotation timer".
	WindowSeconds uint64
}

// DefaultConfig returns the spec-mandated defaults (spec §6).
func DefaultConfig() Config {
	return Config{
		Periods:        5,
		DeepSampleRate: 100,
		WindowSeconds:  60,
	}
}

// Validate checks Config against spec §6's documented ranges, returning a
// *metricerr.ConfigError for the first violation found.
func (c Config) Validate() error {
	if c.Periods < 1 || c.Periods > 10 {
		return metricerr.NewConfigError("num_periods", "must be in range [1,10]")
	}
	if c.DeepSampleRate > 100 {
		return metricerr.NewConfigError("deep_sample_rate", "must be in range [0,100]")
	}
	if c.WindowSeconds == 0 {
		return metricerr.NewConfigError("window", "must be greater than zero")
	}
	return nil
}
