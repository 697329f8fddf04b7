package capability

import "context"

// Provider is the contract every computation provider implements.
// Input and output payloads are opaque to the host: their concrete shape is a
// per-tag convention between the caller and the provider, and the host
// forwards both without inspection.
//
// A provider that needs collaborators should depend on them through further
// Provider (or narrower) interfaces injected at construction time, never on
// concrete provider types.
type Provider interface {
	// Compute performs the capability's computation on input.
	Compute(ctx context.Context, input any) (any, error)
}

// ProviderFunc adapts a plain function into a Provider.
type ProviderFunc func(ctx context.Context, input any) (any, error)

// Compute implements Provider.
func (f ProviderFunc) Compute(ctx context.Context, input any) (any, error) {
	return f(ctx, input)
}
