// Package schema manages JSON schemas describing capability input payloads
// and validates dispatch inputs against them.
package schema

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/capwire-dev/capwire/capability"
)

// Registry implements SchemaRegistry using in-memory storage.
type Registry struct {
	schemas   map[capability.Tag]string
	order     []capability.Tag
	mu        sync.RWMutex
	reflector *jsonschema.Reflector
}

// NewRegistry creates a new schema registry.
func NewRegistry() *Registry {
	r := &Registry{
		schemas:   make(map[capability.Tag]string),
		reflector: new(jsonschema.Reflector),
	}
	r.reflector.ExpandedStruct = true
	return r
}

// Register adds a schema for a capability tag.
// model can be a Go struct (reflected to a JSON schema), a raw schema string,
// a []byte, or a map[string]any. Registering a bound tag fails.
func (r *Registry) Register(tag capability.Tag, model any) error {
	if tag.IsEmpty() {
		return fmt.Errorf("cannot register schema for empty capability tag")
	}

	schemaStr, err := r.render(model)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tag, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[tag]; exists {
		return &capability.DuplicateCapabilityError{Tag: tag}
	}

	r.schemas[tag] = schemaStr
	r.order = append(r.order, tag)
	return nil
}

func (r *Registry) render(model any) (string, error) {
	switch v := model.(type) {
	case nil:
		return "", fmt.Errorf("schema model cannot be nil")
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal schema map: %w", err)
		}
		return string(b), nil
	default:
		s := r.reflector.Reflect(model)
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal generated schema: %w", err)
		}
		return string(b), nil
	}
}

// Unregister removes the schema for tag. Absent tags are a no-op.
func (r *Registry) Unregister(tag capability.Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[tag]; !exists {
		return
	}

	delete(r.schemas, tag)
	r.order = slices.DeleteFunc(r.order, func(t capability.Tag) bool {
		return t.Equals(tag)
	})
}

// Schema retrieves the JSON schema for a capability tag.
func (r *Registry) Schema(tag capability.Tag) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[tag]
	return s, ok
}

// List returns all tags with a registered schema, in registration order.
func (r *Registry) List() []capability.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]capability.Tag, len(r.order))
	copy(out, r.order)
	return out
}
