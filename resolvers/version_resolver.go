// Package resolvers converts version constraints into exact manifest versions.
package resolvers

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrNoMatchingVersion is returned when no available version satisfies the
// requested constraint.
var ErrNoMatchingVersion = errors.New("no matching version")

// UnresolvedConstraintError reports a constraint that no available version
// satisfies.
type UnresolvedConstraintError struct {
	Constraint string
	Available  []string
}

func (e *UnresolvedConstraintError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no version satisfies %q: nothing available", e.Constraint)
	}
	return fmt.Sprintf("no version satisfies %q among %s", e.Constraint, strings.Join(e.Available, ", "))
}

// Is implements error matching for errors.Is() checks.
func (e *UnresolvedConstraintError) Is(target error) bool {
	return target == ErrNoMatchingVersion
}

// SemverResolver resolves version constraints against catalog versions using
// Masterminds/semver range syntax.
type SemverResolver struct{}

// NewSemverResolver creates a new SemverResolver.
func NewSemverResolver() *SemverResolver {
	return &SemverResolver{}
}

// Resolve picks the highest version in available that satisfies constraint.
// An empty constraint or the keyword "latest" selects the highest available
// version. Every entry in available must parse as a semantic version; the
// catalog only hands out versions it validated on the way in, so an
// unparseable entry is a caller bug, not something to skip over.
func (r *SemverResolver) Resolve(constraint string, available []string) (string, error) {
	constraint = strings.TrimSpace(constraint)
	spec := constraint
	if spec == "" || spec == "latest" {
		spec = ">= 0"
	}

	c, err := semver.NewConstraint(spec)
	if err != nil {
		return "", fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}

	versions := make([]*semver.Version, 0, len(available))
	for _, raw := range available {
		v, err := semver.NewVersion(raw)
		if err != nil {
			return "", fmt.Errorf("invalid available version %q: %w", raw, err)
		}
		versions = append(versions, v)
	}

	// Highest first, so the first hit wins.
	slices.SortFunc(versions, func(a, b *semver.Version) int {
		return b.Compare(a)
	})

	for _, v := range versions {
		if c.Check(v) {
			return v.Original(), nil
		}
	}

	return "", &UnresolvedConstraintError{
		Constraint: constraint,
		Available:  slices.Clone(available),
	}
}
