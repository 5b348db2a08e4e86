// Package metricerr defines the error types ConfigError, LifecycleError
// and SketchError. Dropped ingest events and out-of-range snapshot reads
// have no error type here: handlers count dropped events in a bucket's
// filtered counter, and render an empty bucket for a period that is not
// retained. Ingest-time errors are absorbed into counters and never surfaced;
// lifecycle and configuration errors propagate to the caller and prevent
// Start.
package metricerr

import "fmt"

// ConfigError reports an invalid, out-of-range, or unparsable
// configuration value. Raised at configure or start time; fatal to the
// handler that raised it.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("metricerr: invalid config field %q: %s", e.Field, e.Reason)
}

// NewConfigError constructs a ConfigError.
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// LifecycleError reports an operation attempted outside the state the
// manager's state machine allows it in (spec §4.3), such as ingest after
// stop or a second start.
type LifecycleError struct {
	Op    string
	State string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("metricerr: %s not allowed in state %s", e.Op, e.State)
}

// NewLifecycleError constructs a LifecycleError.
func NewLifecycleError(op, state string) *LifecycleError {
	return &LifecycleError{Op: op, State: state}
}

// SketchError reports that an underlying sketch library signaled
// failure. It is logged by the caller; the offending primitive's value
// is omitted from that render but the overall render continues. It is
// never returned from a public API — callers that construct one should
// log it via pkg/log and move on.
type SketchError struct {
	Primitive string
	Err       error
}

func (e *SketchError) Error() string {
	return fmt.Sprintf("metricerr: sketch error in %s: %v", e.Primitive, e.Err)
}

func (e *SketchError) Unwrap() error {
	return e.Err
}

// NewSketchError constructs a SketchError.
func NewSketchError(primitive string, err error) *SketchError {
	return &SketchError{Primitive: primitive, Err: err}
}
