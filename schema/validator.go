package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/capwire-dev/capwire/capability"
)

// ErrInvalidInput is returned when an input payload violates the schema
// registered for its capability tag.
var ErrInvalidInput = errors.New("invalid input payload")

// InvalidInputError reports a payload that failed schema validation.
type InvalidInputError struct {
	Tag capability.Tag
	Err error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %v", e.Tag.String(), e.Err)
}

// Is implements error matching for errors.Is() checks.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Unwrap exposes the underlying validation error.
func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// Validator validates dispatch input payloads against registered schemas.
// Compiled schemas are cached per tag and recompiled when the registered
// schema text changes (e.g. after an unregister/register cycle); tags
// without a schema pass.
type Validator struct {
	schemas  SchemaRegistry
	mu       sync.Mutex
	compiled map[capability.Tag]compiledSchema
}

type compiledSchema struct {
	raw    string
	schema *jsonschema.Schema
}

// NewValidator creates a validator backed by a schema registry.
func NewValidator(schemas SchemaRegistry) *Validator {
	return &Validator{
		schemas:  schemas,
		compiled: make(map[capability.Tag]compiledSchema),
	}
}

// ValidateInput checks input against the schema registered for tag.
// The payload is marshaled to JSON before validation, so any JSON-encodable
// value is accepted.
func (v *Validator) ValidateInput(tag capability.Tag, input any) error {
	raw, ok := v.schemas.Schema(tag)
	if !ok {
		return nil
	}

	sch, err := v.compile(tag, raw)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tag, err)
	}

	data, err := json.Marshal(input)
	if err != nil {
		return &InvalidInputError{Tag: tag, Err: fmt.Errorf("payload is not JSON-encodable: %w", err)}
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return &InvalidInputError{Tag: tag, Err: err}
	}

	if err := sch.Validate(decoded); err != nil {
		return &InvalidInputError{Tag: tag, Err: err}
	}
	return nil
}

func (v *Validator) compile(tag capability.Tag, raw string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if c, ok := v.compiled[tag]; ok && c.raw == raw {
		return c.schema, nil
	}

	sch, err := jsonschema.CompileString(tag.String()+".schema.json", raw)
	if err != nil {
		return nil, fmt.Errorf("compile failed: %w", err)
	}
	v.compiled[tag] = compiledSchema{raw: raw, schema: sch}
	return sch, nil
}
