package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProviderSetMismatch is returned when a provider set does not cover a
// manifest's declared capabilities exactly.
var ErrProviderSetMismatch = errors.New("provider set does not match manifest")

// ProviderSetError reports how a provider set diverges from the manifest it
// was supplied for.
type ProviderSetError struct {
	Manifest string
	// Missing holds declared tags with no provider in the set.
	Missing []string
	// Extra holds set keys that the manifest does not declare.
	Extra []string
	// Nil holds declared tags whose set entry is nil.
	Nil []string
}

func (e *ProviderSetError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing providers for %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("undeclared tags %s", strings.Join(e.Extra, ", ")))
	}
	if len(e.Nil) > 0 {
		parts = append(parts, fmt.Sprintf("nil providers for %s", strings.Join(e.Nil, ", ")))
	}
	return fmt.Sprintf("manifest %s: provider set mismatch: %s", e.Manifest, strings.Join(parts, "; "))
}

// Is implements error matching for errors.Is() checks.
func (e *ProviderSetError) Is(target error) bool {
	return target == ErrProviderSetMismatch
}
