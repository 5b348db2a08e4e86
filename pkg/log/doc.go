/*
Package log provides structured logging for netvisor using zerolog.

The log package wraps zerolog to provide JSON-structured logging with
component-specific child loggers, configurable log levels, and helper
functions for common logging patterns. All logs include timestamps and
support filtering by severity level.

# Usage

	import "github.com/cuemby/netvisor/pkg/log"

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})

	flowLog := log.WithSchemaKey("flow")
	flowLog.Info().Msg("handler started")

	tapLog := log.WithTap("eth0")
	tapLog.Warn().Msg("deep sample rate clamped to 100")

Each With* helper derives a child of the package-level Logger carrying
one extra field; the helpers do not chain. A ring manager builds its
logger once with WithSchemaKey at construction and reuses it for its
lifetime rather than re-deriving it per event.
*/
package log
