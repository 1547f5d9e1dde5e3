package profiler

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Profiler) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the Profiler carried by ctx, or nil.
func FromContext(ctx context.Context) *Profiler {
	p, _ := ctx.Value(contextKey{}).(*Profiler)
	return p
}
