package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for oscillator operations.
var (
	// ErrParameterBounds indicates a parameter value is outside its valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrNotNumeric indicates parameter input that is not a finite number.
	ErrNotNumeric = errors.New("dynamo: parameter is not numeric")

	// ErrUnknownField indicates a parameter name that does not exist.
	ErrUnknownField = errors.New("dynamo: unknown parameter")

	// ErrCannotStart indicates the simulation was asked to start while
	// at least one parameter is invalid.
	ErrCannotStart = errors.New("dynamo: cannot start with invalid parameters")

	// ErrDomain indicates kinematics were requested for parameters that
	// leave the angular frequency undefined.
	ErrDomain = errors.New("dynamo: kinematics undefined for parameters")
)

// ValidationError reports a rejected parameter update.
type ValidationError struct {
	Field  Field
	Reason string
	Input  string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Reason, e.Input)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DomainError reports a quantity the evaluator cannot work with.
type DomainError struct {
	Mode     Mode
	Quantity string
	Value    float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s must be positive and finite, got %g", e.Mode, e.Quantity, e.Value)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}
