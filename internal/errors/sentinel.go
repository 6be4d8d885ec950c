package errors

import (
	"errors"

	"github.com/opmodel/modkit/pkg/hierarchy"
)

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates a manifest, scenario or config validation failure.
	ErrValidation = errors.New("validation error")

	// ErrPermission indicates insufficient permissions.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a type, owner, or file was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates an unrecognized mode, policy, or kind. It is
	// the library sentinel so errors.Is matches across package boundaries.
	ErrInvalidArgument = hierarchy.ErrInvalidArgument
)
