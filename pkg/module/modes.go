package module

import (
	"fmt"
	"strings"

	"github.com/opmodel/modkit/pkg/hierarchy"
)

// ErrInvalidArgument is returned for unrecognized modes and policies. It is the
// same sentinel as hierarchy.ErrInvalidArgument.
var ErrInvalidArgument = hierarchy.ErrInvalidArgument

// MatchMode selects how a requested type is matched against module types.
type MatchMode string

const (
	// MatchAssignable matches equal types, ancestors and implemented interfaces.
	MatchAssignable MatchMode = "assignable"

	// MatchExact matches only the module's concrete type.
	MatchExact MatchMode = "exact"
)

// String returns the string representation of the match mode.
func (m MatchMode) String() string {
	return string(m)
}

// Validate returns ErrInvalidArgument for anything but the declared modes.
func (m MatchMode) Validate() error {
	switch m {
	case MatchAssignable, MatchExact:
		return nil
	default:
		return fmt.Errorf("%w: unknown match mode %q (valid: %s)", ErrInvalidArgument, string(m), strings.Join(ValidMatchModes(), ", "))
	}
}

// ParseMatchMode parses a match mode. "direct" is accepted for MatchExact.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assignable", "hierarchy":
		return MatchAssignable, nil
	case "exact", "direct":
		return MatchExact, nil
	default:
		return "", MatchMode(s).Validate()
	}
}

// ValidMatchModes returns the valid match mode strings.
func ValidMatchModes() []string {
	return []string{string(MatchAssignable), string(MatchExact)}
}

// RemoveMode selects how many matching modules a removal detaches.
type RemoveMode string

const (
	// RemoveAll detaches every match, scanning back to front.
	RemoveAll RemoveMode = "all"

	// RemoveFirst detaches the first match in insertion order.
	RemoveFirst RemoveMode = "first"
)

// String returns the string representation of the remove mode.
func (m RemoveMode) String() string {
	return string(m)
}

// Validate returns ErrInvalidArgument for anything but the declared modes.
func (m RemoveMode) Validate() error {
	switch m {
	case RemoveAll, RemoveFirst:
		return nil
	default:
		return fmt.Errorf("%w: unknown remove mode %q (valid: %s)", ErrInvalidArgument, string(m), strings.Join(ValidRemoveModes(), ", "))
	}
}

// ParseRemoveMode parses a remove mode. "absolute" is accepted for RemoveAll.
func ParseRemoveMode(s string) (RemoveMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "absolute":
		return RemoveAll, nil
	case "first":
		return RemoveFirst, nil
	default:
		return "", RemoveMode(s).Validate()
	}
}

// ValidRemoveModes returns the valid remove mode strings.
func ValidRemoveModes() []string {
	return []string{string(RemoveAll), string(RemoveFirst)}
}

// CleanupPolicy selects how Registry.RemoveModule cleans up other index keys.
type CleanupPolicy string

const (
	// CleanupClosure drops every removed module from every key it is indexed
	// under, then drops keys and owners left empty. Lookups stay consistent.
	CleanupClosure CleanupPolicy = "closure"

	// CleanupLegacy fires hooks for the modules under the requested key and then
	// deletes the keys of the requested type's closure, leaving other keys
	// untouched. A removed module can stay reachable under a key outside that
	// closure, and unrelated modules sharing a deleted key are dropped without
	// their hooks running. A module indexed twice under the requested key has
	// its hook run once per entry.
	CleanupLegacy CleanupPolicy = "legacy"
)

// String returns the string representation of the cleanup policy.
func (p CleanupPolicy) String() string {
	return string(p)
}

// Validate returns ErrInvalidArgument for anything but the declared policies.
func (p CleanupPolicy) Validate() error {
	switch p {
	case CleanupClosure, CleanupLegacy:
		return nil
	default:
		return fmt.Errorf("%w: unknown cleanup policy %q (valid: %s)", ErrInvalidArgument, string(p), strings.Join(ValidCleanupPolicies(), ", "))
	}
}

// ParseCleanupPolicy parses a cleanup policy.
func ParseCleanupPolicy(s string) (CleanupPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "closure", "consistent":
		return CleanupClosure, nil
	case "legacy":
		return CleanupLegacy, nil
	default:
		return "", CleanupPolicy(s).Validate()
	}
}

// ValidCleanupPolicies returns the valid cleanup policy strings.
func ValidCleanupPolicies() []string {
	return []string{string(CleanupClosure), string(CleanupLegacy)}
}
