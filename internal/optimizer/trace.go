package optimizer

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to the global equations tracer, which covers arithmetic.
func T() tracing.Trace {
	return gtrace.EquationsTracer
}
