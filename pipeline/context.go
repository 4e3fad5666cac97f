package pipeline

import "context"

// ContextCarrier is implemented by request types that carry a
// context.Context. Built-in stages use it to propagate trace context.
type ContextCarrier interface {
	Context() context.Context
}

// requestContext extracts a context from the request when it carries one.
func requestContext(req any) context.Context {
	switch v := req.(type) {
	case ContextCarrier:
		if ctx := v.Context(); ctx != nil {
			return ctx
		}
	case context.Context:
		if v != nil {
			return v
		}
	}
	return context.Background()
}
