package interp

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to the global interpreter tracer.
func T() tracing.Trace {
	return gtrace.InterpreterTracer
}
