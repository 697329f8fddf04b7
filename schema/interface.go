package schema

import "github.com/capwire-dev/capwire/capability"

// SchemaRegistry manages JSON schemas for capability input payloads.
type SchemaRegistry interface {
	// Register adds a schema for a capability tag.
	// model can be a struct (to generate schema) or a JSON schema
	// string/[]byte/map.
	Register(tag capability.Tag, model any) error

	// Unregister removes the schema for tag if present.
	// Removing an absent tag is a no-op, not an error.
	Unregister(tag capability.Tag)

	// Schema returns the JSON schema for a capability tag.
	Schema(tag capability.Tag) (string, bool)

	// List returns all tags with a registered schema, in registration order.
	List() []capability.Tag
}
