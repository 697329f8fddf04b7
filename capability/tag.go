// Package capability defines the core contracts of the computation host:
// capability tags, the provider interface, and the error taxonomy shared by
// the registry and the dispatcher.
package capability

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tag represents a validated capability identifier.
// Tags name a category of interchangeable computation (e.g. "geometry/area")
// and are compared by exact value equality, case-sensitive.
type Tag struct {
	value string
}

// NewTag creates a Tag with strict validation.
// A valid tag must:
// - Be non-empty after trimming
// - Be at most 128 characters long
// - Consist of non-empty segments joined by '/'
// - Use only lowercase letters, digits, underscores, and hyphens per segment
func NewTag(raw string) (Tag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Tag{}, fmt.Errorf("capability tag cannot be empty")
	}

	if len(raw) > 128 {
		return Tag{}, fmt.Errorf("capability tag too long (max 128 chars)")
	}

	if strings.Contains(raw, "..") {
		return Tag{}, fmt.Errorf("capability tag cannot contain parent directory references")
	}

	for _, segment := range strings.Split(raw, "/") {
		if segment == "" {
			return Tag{}, fmt.Errorf("invalid capability tag %q: empty segment", raw)
		}
		for _, ch := range segment {
			if !isValidTagChar(ch) {
				return Tag{}, fmt.Errorf("invalid capability tag %q: must contain only lowercase letters, digits, underscores, hyphens, and '/' separators", raw)
			}
		}
	}

	return Tag{value: raw}, nil
}

func isValidTagChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') ||
		r == '_' ||
		r == '-'
}

// MustNewTag creates a Tag or panics.
func MustNewTag(raw string) Tag {
	t, err := NewTag(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the string representation.
func (t Tag) String() string {
	return t.value
}

// IsEmpty returns true if this is the zero value.
func (t Tag) IsEmpty() bool {
	return t.value == ""
}

// Equals checks if two tags are equal.
func (t Tag) Equals(other Tag) bool {
	return t.value == other.value
}

// MarshalJSON implements json.Marshaler.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid capability tag JSON: %w", err)
	}

	tag, err := NewTag(raw)
	if err != nil {
		return err
	}
	*t = tag
	return nil
}
