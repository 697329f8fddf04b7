package manifest

import (
	"fmt"
	"slices"

	"github.com/capwire-dev/capwire/capability"
	"github.com/capwire-dev/capwire/registry"
	"github.com/capwire-dev/capwire/schema"
)

// ProviderSet supplies the concrete providers backing a manifest's declared
// capabilities, keyed by declared tag.
type ProviderSet map[string]capability.Provider

// Binder installs manifests: it validates a manifest, checks that a provider
// set covers every declared capability, registers declared input schemas, and
// binds the providers.
type Binder struct {
	providers registry.ProviderRegistry
	schemas   schema.SchemaRegistry
}

// NewBinder creates a binder installing into the given registries.
func NewBinder(providers registry.ProviderRegistry, schemas schema.SchemaRegistry) *Binder {
	return &Binder{
		providers: providers,
		schemas:   schemas,
	}
}

// Bind installs a manifest backed by set.
// The call fails without side effects when the manifest is invalid, when set
// does not cover every declared tag exactly with non-nil providers, or when
// any declared tag is already bound in either registry. Registrations that
// succeed before a late failure are rolled back, schemas included.
func (b *Binder) Bind(m *Manifest, set ProviderSet) error {
	if err := m.Validate(); err != nil {
		return err
	}

	tags := m.Tags()

	if err := checkProviderSet(m, tags, set); err != nil {
		return err
	}

	// Pre-check bindings so registration below cannot hit a duplicate.
	for _, tag := range tags {
		if _, bound := b.providers.Lookup(tag); bound {
			return &capability.DuplicateCapabilityError{Tag: tag}
		}
		if _, bound := b.schemas.Schema(tag); bound {
			return &capability.DuplicateCapabilityError{Tag: tag}
		}
	}

	var boundSchemas []capability.Tag
	rollbackSchemas := func() {
		for _, t := range boundSchemas {
			b.schemas.Unregister(t)
		}
	}

	for _, decl := range m.Capabilities {
		if decl.InputSchema == nil {
			continue
		}
		tag, _ := decl.CapabilityTag()
		if err := b.schemas.Register(tag, decl.InputSchema); err != nil {
			rollbackSchemas()
			return fmt.Errorf("manifest %s: %w", m.Name, err)
		}
		boundSchemas = append(boundSchemas, tag)
	}

	var boundProviders []capability.Tag
	for _, tag := range tags {
		if err := b.providers.Register(tag, set[tag.String()]); err != nil {
			for _, t := range boundProviders {
				b.providers.Unregister(t)
			}
			rollbackSchemas()
			return fmt.Errorf("manifest %s: %w", m.Name, err)
		}
		boundProviders = append(boundProviders, tag)
	}

	return nil
}

func checkProviderSet(m *Manifest, tags []capability.Tag, set ProviderSet) error {
	declared := make(map[string]bool, len(tags))
	psErr := &ProviderSetError{Manifest: m.Name}

	for _, tag := range tags {
		declared[tag.String()] = true
		p, ok := set[tag.String()]
		switch {
		case !ok:
			psErr.Missing = append(psErr.Missing, tag.String())
		case p == nil:
			psErr.Nil = append(psErr.Nil, tag.String())
		}
	}
	for key := range set {
		if !declared[key] {
			psErr.Extra = append(psErr.Extra, key)
		}
	}
	slices.Sort(psErr.Extra)

	if len(psErr.Missing) > 0 || len(psErr.Extra) > 0 || len(psErr.Nil) > 0 {
		return psErr
	}
	return nil
}

// Unbind removes a manifest's declared capabilities from both registries.
// Tags that are not bound are skipped.
func (b *Binder) Unbind(m *Manifest) {
	for _, tag := range m.Tags() {
		b.providers.Unregister(tag)
		b.schemas.Unregister(tag)
	}
}
