package capability

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error patterns.
// These allow both errors.Is() checks and errors.As() for detailed information.
var (
	// ErrUnknownCapability is returned when no provider is bound to a tag.
	ErrUnknownCapability = errors.New("unknown capability")

	// ErrDuplicateCapability is returned when a tag is already bound and the
	// registry rejects overwrites.
	ErrDuplicateCapability = errors.New("capability already registered")

	// ErrProviderFailure is returned when a bound provider fails while running.
	ErrProviderFailure = errors.New("provider failure")
)

// UnknownCapabilityError indicates a dispatch or lookup against an unbound tag.
type UnknownCapabilityError struct {
	Tag Tag
}

func (e *UnknownCapabilityError) Error() string {
	return fmt.Sprintf("unknown capability: %s", e.Tag.String())
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, capability.ErrUnknownCapability)
func (e *UnknownCapabilityError) Is(target error) bool {
	return target == ErrUnknownCapability
}

// DuplicateCapabilityError indicates a second registration under a bound tag.
type DuplicateCapabilityError struct {
	Tag Tag
}

func (e *DuplicateCapabilityError) Error() string {
	return fmt.Sprintf("capability already registered: %s", e.Tag.String())
}

// Is implements error matching for errors.Is() checks.
func (e *DuplicateCapabilityError) Is(target error) bool {
	return target == ErrDuplicateCapability
}

// ProviderFailureError wraps a failure signaled by a provider's Compute,
// preserving the original cause for diagnostics. It lets callers distinguish
// "no such capability" from "capability failed while running".
type ProviderFailureError struct {
	Tag Tag
	Err error
}

func (e *ProviderFailureError) Error() string {
	return fmt.Sprintf("provider for %s failed: %v", e.Tag.String(), e.Err)
}

// Is implements error matching for errors.Is() checks.
func (e *ProviderFailureError) Is(target error) bool {
	return target == ErrProviderFailure
}

// Unwrap exposes the provider's original error to errors.Is/errors.As.
func (e *ProviderFailureError) Unwrap() error {
	return e.Err
}
