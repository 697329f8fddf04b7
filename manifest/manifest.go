// Package manifest describes provider bundles: which capabilities a bundle
// declares, under which version, and how declarations are parsed, installed,
// and resolved.
package manifest

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/capwire-dev/capwire/capability"
	"github.com/capwire-dev/capwire/manifest/values"
)

// CapabilityDecl declares one capability a provider bundle offers.
type CapabilityDecl struct {
	// Tag is the capability tag the bundle binds (e.g. "geometry/area").
	Tag string `json:"tag" yaml:"tag"`

	// Description is an optional human-readable summary.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// InputSchema is an optional JSON schema constraining input payloads.
	InputSchema map[string]any `json:"input_schema,omitempty" yaml:"input_schema,omitempty"`
}

// CapabilityTag returns the declaration's validated tag.
func (d CapabilityDecl) CapabilityTag() (capability.Tag, error) {
	return capability.NewTag(d.Tag)
}

// Manifest describes a provider bundle.
type Manifest struct {
	// Name is the bundle identifier (e.g. "geometry").
	Name string `json:"name" yaml:"name"`

	// Version is the bundle's semantic version (e.g. "1.2.0").
	Version string `json:"version" yaml:"version"`

	// Description is an optional human-readable summary.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Capabilities lists the capabilities the bundle declares.
	Capabilities []CapabilityDecl `json:"capabilities" yaml:"capabilities"`
}

// Validate checks the manifest for well-formedness: a valid name, a parseable
// semantic version, and at least one duplicate-free, well-formed capability
// declaration.
func (m *Manifest) Validate() error {
	if _, err := values.NewProviderName(m.Name); err != nil {
		return fmt.Errorf("manifest name: %w", err)
	}

	if _, err := semver.NewVersion(m.Version); err != nil {
		return fmt.Errorf("manifest %s: invalid version %q: %w", m.Name, m.Version, err)
	}

	if len(m.Capabilities) == 0 {
		return fmt.Errorf("manifest %s declares no capabilities", m.Name)
	}

	seen := make(map[capability.Tag]struct{}, len(m.Capabilities))
	for _, decl := range m.Capabilities {
		tag, err := decl.CapabilityTag()
		if err != nil {
			return fmt.Errorf("manifest %s: %w", m.Name, err)
		}
		if _, dup := seen[tag]; dup {
			return fmt.Errorf("manifest %s declares %s twice", m.Name, tag)
		}
		seen[tag] = struct{}{}
	}

	return nil
}

// Tags returns the declared capability tags in declaration order.
// The manifest must already be validated.
func (m *Manifest) Tags() []capability.Tag {
	tags := make([]capability.Tag, 0, len(m.Capabilities))
	for _, decl := range m.Capabilities {
		tag, err := decl.CapabilityTag()
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}
