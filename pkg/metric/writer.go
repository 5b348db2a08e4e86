package metric

import "io"

// Writer is the sink every primitive's ToPrometheus method writes
// exposition-format text into. It is an alias for io.Writer so callers can
// pass a *strings.Builder, a *bytes.Buffer, or an http.ResponseWriter
// directly.
type Writer = io.Writer
