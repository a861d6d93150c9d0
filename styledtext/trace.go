package styledtext

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'richdom'.
func tracer() tracing.Trace {
	return tracing.Select("richdom")
}
