package composite

import "context"

// Tracer brackets a named unit of work. Implementations return a context for
// the traced span and a function that ends it; the default does neither, so
// tracing stays out of the hot path unless wired at startup.
type Tracer func(ctx context.Context, name string) (context.Context, func())

// NopTracer is the default Tracer: it traces nothing.
func NopTracer(ctx context.Context, _ string) (context.Context, func()) {
	return ctx, func() {}
}
