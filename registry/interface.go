package registry

import (
	"iter"

	"github.com/capwire-dev/capwire/capability"
)

// ProviderRegistry manages bindings from capability tags to providers.
type ProviderRegistry interface {
	// Register binds provider to tag. Under the default overwrite-rejected
	// policy a second registration for a bound tag fails with
	// capability.DuplicateCapabilityError.
	Register(tag capability.Tag, provider capability.Provider) error

	// Unregister removes the binding for tag if present.
	// Removing an absent tag is a no-op, not an error.
	Unregister(tag capability.Tag)

	// Lookup returns the provider bound to tag, or false for a miss.
	Lookup(tag capability.Tag) (capability.Provider, bool)

	// List returns a snapshot of all bound tags in registration order.
	// Re-registering a previously removed tag places it at the end.
	List() []capability.Tag

	// Tags iterates bound tags lazily in registration order.
	// The sequence is finite and restartable.
	Tags() iter.Seq[capability.Tag]

	// Match returns the bound tags matching a doublestar glob pattern
	// (e.g. "geometry/*", "**"), in registration order.
	Match(pattern string) ([]capability.Tag, error)

	// Len returns the number of bound tags.
	Len() int
}
