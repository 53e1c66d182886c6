package parser

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to the global syntax tracer.
func T() tracing.Trace {
	return gtrace.SyntaxTracer
}

// debugf traces at debug level when a syntax tracer is installed.
func debugf(format string, args ...interface{}) {
	if t := T(); t != nil {
		t.Debugf(format, args...)
	}
}
