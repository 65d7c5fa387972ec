package precision

import (
	"errors"
	"fmt"
)

// Domain errors for model inputs.
var (
	// ErrOutOfRange indicates a physical input outside its valid range
	// (non-positive length, zero diameter, negative speed).
	ErrOutOfRange = errors.New("precision: input out of valid range")

	// ErrInvalidGeometry indicates an inconsistent geometric configuration,
	// such as a flute longer than the tool stickout.
	ErrInvalidGeometry = errors.New("precision: invalid geometry")

	// ErrEmptyInput indicates an operation that needs at least one element
	// received none.
	ErrEmptyInput = errors.New("precision: empty input")
)

// InputError wraps an error with the offending field and value.
type InputError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s=%g: %s", e.Field, e.Value, e.Wrapped.Error())
}

func (e *InputError) Unwrap() error {
	return e.Wrapped
}

// Positive returns an InputError for field unless value > 0.
func Positive(field string, value float64) error {
	if value > 0 {
		return nil
	}
	return &InputError{Field: field, Value: value, Wrapped: ErrOutOfRange}
}

// NonNegative returns an InputError for field unless value >= 0.
func NonNegative(field string, value float64) error {
	if value >= 0 {
		return nil
	}
	return &InputError{Field: field, Value: value, Wrapped: ErrOutOfRange}
}
