package mapping

import (
	"errors"
	"fmt"
)

// Errors returned by resolution.
var (
	// ErrPlatformNotFound indicates the platform does not exist.
	ErrPlatformNotFound = errors.New("mapping: platform not found")
	// ErrPlatformDisabled indicates the platform is disabled and must not
	// be resolved against.
	ErrPlatformDisabled = errors.New("mapping: platform disabled")
)

// MissingRequiredParameterError indicates a required rule could not produce
// a value from the input bag, its default, or a fixed value.
type MissingRequiredParameterError struct {
	TargetParam string // Vendor field the rule would have filled.
}

func (e *MissingRequiredParameterError) Error() string {
	return fmt.Sprintf("mapping: missing required parameter %q", e.TargetParam)
}

// TypeCoercionError indicates a resolved value could not be coerced to the
// rule's declared param type.
type TypeCoercionError struct {
	RuleID      uint64 // Offending rule.
	TargetParam string // Vendor field being filled.
	ParamType   string // Declared coercion type.
	Value       any    // Value that failed to coerce.
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("mapping: rule %d: cannot coerce %v to %s for %q", e.RuleID, e.Value, e.ParamType, e.TargetParam)
}
