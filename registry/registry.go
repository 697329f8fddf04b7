// Package registry implements the in-memory capability registry binding tags
// to computation providers.
package registry

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/capwire-dev/capwire/capability"
)

// Registry implements ProviderRegistry using in-memory storage.
// All methods are safe for concurrent use; a lookup never observes a
// partially applied registration.
type Registry struct {
	providers map[capability.Tag]capability.Provider
	order     []capability.Tag
	mu        sync.RWMutex
	overwrite bool
}

// RegistryOption configures the Registry.
type RegistryOption func(*Registry)

// WithOverwrite switches the registry to overwrite-allowed mode:
// a second registration under a bound tag silently replaces the first,
// keeping the tag's original position in registration order.
// The default is overwrite-rejected.
func WithOverwrite() RegistryOption {
	return func(r *Registry) {
		r.overwrite = true
	}
}

// NewRegistry creates a new provider registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		providers: make(map[capability.Tag]capability.Provider),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register binds provider to tag.
func (r *Registry) Register(tag capability.Tag, provider capability.Provider) error {
	if tag.IsEmpty() {
		return fmt.Errorf("cannot register empty capability tag")
	}
	if provider == nil {
		return fmt.Errorf("cannot register nil provider for %s", tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[tag]; exists {
		if !r.overwrite {
			return &capability.DuplicateCapabilityError{Tag: tag}
		}
		r.providers[tag] = provider
		return nil
	}

	r.providers[tag] = provider
	r.order = append(r.order, tag)
	return nil
}

// Unregister removes the binding for tag. Absent tags are a no-op.
func (r *Registry) Unregister(tag capability.Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[tag]; !exists {
		return
	}

	delete(r.providers, tag)
	r.order = slices.DeleteFunc(r.order, func(t capability.Tag) bool {
		return t.Equals(tag)
	})
}

// Lookup returns the provider bound to tag.
func (r *Registry) Lookup(tag capability.Tag) (capability.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[tag]
	return p, ok
}

// List returns all bound tags in registration order.
func (r *Registry) List() []capability.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Tags iterates bound tags in registration order. Each range over the
// sequence sees a fresh snapshot, so iteration never holds the lock while
// the caller's body runs.
func (r *Registry) Tags() iter.Seq[capability.Tag] {
	return func(yield func(capability.Tag) bool) {
		for _, tag := range r.List() {
			if !yield(tag) {
				return
			}
		}
	}
}

// Match returns the bound tags matching a doublestar glob pattern,
// in registration order.
func (r *Registry) Match(pattern string) ([]capability.Tag, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid tag pattern %q", pattern)
	}

	var matched []capability.Tag
	for _, tag := range r.List() {
		ok, err := doublestar.Match(pattern, tag.String())
		if err != nil {
			return nil, fmt.Errorf("matching pattern %q: %w", pattern, err)
		}
		if ok {
			matched = append(matched, tag)
		}
	}
	return matched, nil
}

// Len returns the number of bound tags.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}
