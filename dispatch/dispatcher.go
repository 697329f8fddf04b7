// Package dispatch routes tagged invocation requests to registered providers.
// The dispatcher is a pure routing layer: no retries, no caching, no state
// between calls.
package dispatch

import (
	"context"

	"github.com/google/uuid"

	"github.com/capwire-dev/capwire/capability"
)

// Resolver is the narrow registry surface the dispatcher depends on.
type Resolver interface {
	Lookup(tag capability.Tag) (capability.Provider, bool)
}

// Handler processes one invocation request.
type Handler func(ctx context.Context, tag capability.Tag, input any) (any, error)

// Middleware wraps a Handler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
type Middleware func(next Handler) Handler

// Dispatcher routes (tag, input) pairs to the provider bound to the tag.
// It holds no per-call state and is safe for concurrent use when its
// Resolver is.
type Dispatcher struct {
	resolver Resolver
	chain    Handler
}

// Option is a functional option for configuring a Dispatcher.
type Option func(*dispatcherConfig)

type dispatcherConfig struct {
	middlewares []Middleware
}

// WithMiddleware appends middleware to the dispatch chain.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *dispatcherConfig) {
		c.middlewares = append(c.middlewares, mw...)
	}
}

// NewDispatcher creates a dispatcher routing through resolver.
func NewDispatcher(resolver Resolver, opts ...Option) *Dispatcher {
	var cfg dispatcherConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Dispatcher{resolver: resolver}

	handler := d.invoke
	for i := len(cfg.middlewares) - 1; i >= 0; i-- {
		handler = cfg.middlewares[i](handler)
	}
	d.chain = handler

	return d
}

// Dispatch looks up the provider bound to tag and invokes it with input.
// A miss fails with capability.UnknownCapabilityError; a provider error is
// wrapped as capability.ProviderFailureError with the cause preserved.
// The provider's output passes through unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, tag capability.Tag, input any) (any, error) {
	if _, ok := InvocationIDFromContext(ctx); !ok {
		ctx = WithInvocationID(ctx, uuid.NewString())
	}
	return d.chain(ctx, tag, input)
}

// invoke is the innermost handler: resolve, call, wrap failures.
func (d *Dispatcher) invoke(ctx context.Context, tag capability.Tag, input any) (any, error) {
	provider, ok := d.resolver.Lookup(tag)
	if !ok {
		return nil, &capability.UnknownCapabilityError{Tag: tag}
	}

	out, err := provider.Compute(ctx, input)
	if err != nil {
		return nil, &capability.ProviderFailureError{Tag: tag, Err: err}
	}
	return out, nil
}
