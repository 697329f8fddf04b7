package manifest

import (
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Catalog is an in-memory index of installed manifests by name and version.
// It answers constraint-based resolution queries ("geometry, ^1.0") through
// an injected VersionResolver.
type Catalog struct {
	resolver  VersionResolver
	mu        sync.RWMutex
	manifests map[string]map[string]*Manifest
}

// NewCatalog creates a catalog using resolver for version selection.
func NewCatalog(resolver VersionResolver) *Catalog {
	return &Catalog{
		resolver:  resolver,
		manifests: make(map[string]map[string]*Manifest),
	}
}

// Add indexes a manifest. The same name+version pair cannot be added twice.
func (c *Catalog) Add(m *Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	versions, ok := c.manifests[m.Name]
	if !ok {
		versions = make(map[string]*Manifest)
		c.manifests[m.Name] = versions
	}

	if _, exists := versions[m.Version]; exists {
		return fmt.Errorf("manifest %s@%s already in catalog", m.Name, m.Version)
	}

	versions[m.Version] = m
	return nil
}

// Remove drops a manifest version from the index. Absent entries are a no-op.
func (c *Catalog) Remove(name, version string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	versions, ok := c.manifests[name]
	if !ok {
		return
	}
	delete(versions, version)
	if len(versions) == 0 {
		delete(c.manifests, name)
	}
}

// Versions returns the indexed versions for a bundle name, sorted
// lexicographically for stable output.
func (c *Catalog) Versions(name string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	versions := make([]string, 0, len(c.manifests[name]))
	for v := range c.manifests[name] {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// Resolve returns the manifest for name whose version best satisfies
// constraint (highest satisfying version wins).
func (c *Catalog) Resolve(name, constraint string) (*Manifest, error) {
	available := c.Versions(name)
	if len(available) == 0 {
		return nil, fmt.Errorf("no manifests in catalog for %q", name)
	}

	version, err := c.resolver.Resolve(constraint, available)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", name, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.manifests[name][version]
	if !ok {
		return nil, fmt.Errorf("resolved %s@%s no longer in catalog", name, version)
	}
	return m, nil
}

type catalogEntry struct {
	Name     string         `yaml:"name"`
	Versions []versionEntry `yaml:"versions"`
}

type versionEntry struct {
	Version      string   `yaml:"version"`
	Capabilities []string `yaml:"capabilities"`
}

// Export renders the catalog contents to YAML for diagnostics.
// Bundles and versions are emitted in sorted order.
func (c *Catalog) Export() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]catalogEntry, 0, len(names))
	for _, name := range names {
		versions := make([]string, 0, len(c.manifests[name]))
		for v := range c.manifests[name] {
			versions = append(versions, v)
		}
		sort.Strings(versions)

		entry := catalogEntry{Name: name}
		for _, v := range versions {
			m := c.manifests[name][v]
			tags := make([]string, 0, len(m.Capabilities))
			for _, t := range m.Tags() {
				tags = append(tags, t.String())
			}
			entry.Versions = append(entry.Versions, versionEntry{
				Version:      v,
				Capabilities: tags,
			})
		}
		entries = append(entries, entry)
	}

	return yaml.Marshal(entries)
}
