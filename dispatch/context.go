package dispatch

import "context"

type invocationContextKey struct {
	name string
}

var invocationIDContextKey = &invocationContextKey{name: "invocation_id"}

// WithInvocationID adds an invocation ID to the context.
// Dispatch assigns one automatically when the context has none, so callers
// only need this to propagate an ID of their own.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDContextKey, id)
}

// InvocationIDFromContext retrieves the invocation ID from the context.
func InvocationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(invocationIDContextKey).(string)
	return id, ok
}
