// Package values contains validated value types for the manifest domain.
package values

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProviderName represents a validated provider bundle identifier.
// Bundle names share the charset of capability tag segments so a name can
// double as the leading segment of the tags its bundle declares
// (bundle "geometry", tag "geometry/area").
type ProviderName struct {
	value string
}

// NewProviderName creates a ProviderName with strict validation.
// A valid bundle name:
// - starts with a lowercase letter
// - ends with a lowercase letter or digit
// - uses only lowercase letters, digits, underscores, and hyphens in between
// - is at most 63 characters long
func NewProviderName(name string) (ProviderName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ProviderName{}, fmt.Errorf("bundle name cannot be empty")
	}

	if len(name) > 63 {
		return ProviderName{}, fmt.Errorf("bundle name %q too long (max 63 chars)", name)
	}

	runes := []rune(name)
	if !isLowerAlpha(runes[0]) {
		return ProviderName{}, fmt.Errorf("bundle name %q must start with a lowercase letter", name)
	}
	last := runes[len(runes)-1]
	if !isLowerAlpha(last) && !isDigit(last) {
		return ProviderName{}, fmt.Errorf("bundle name %q must end with a lowercase letter or digit", name)
	}
	for _, r := range runes {
		if !isLowerAlpha(r) && !isDigit(r) && r != '_' && r != '-' {
			return ProviderName{}, fmt.Errorf("invalid bundle name %q: only lowercase letters, digits, underscores, and hyphens are allowed", name)
		}
	}

	return ProviderName{value: name}, nil
}

func isLowerAlpha(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// MustNewProviderName creates a ProviderName or panics.
func MustNewProviderName(name string) ProviderName {
	pn, err := NewProviderName(name)
	if err != nil {
		panic(err)
	}
	return pn
}

// String returns the string representation.
func (p ProviderName) String() string {
	return p.value
}

// IsEmpty returns true if this is the zero value.
func (p ProviderName) IsEmpty() bool {
	return p.value == ""
}

// Equals checks if two provider names are equal.
func (p ProviderName) Equals(other ProviderName) bool {
	return p.value == other.value
}

// MarshalJSON implements json.Marshaler.
func (p ProviderName) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ProviderName) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid bundle name JSON: %w", err)
	}

	name, err := NewProviderName(raw)
	if err != nil {
		return err
	}
	*p = name
	return nil
}
