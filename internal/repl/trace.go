package repl

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to the global command tracer.
func T() tracing.Trace {
	return gtrace.CommandTracer
}
