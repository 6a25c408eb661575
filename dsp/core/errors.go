package core

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by every validating function in the module.
var (
	// ErrInvalidShape reports an array whose rank or layout does not match
	// the operation, including suspicious channel counts.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrInvalidArgument reports an out-of-domain scalar parameter.
	ErrInvalidArgument = errors.New("invalid argument")
)

// InvalidShapef wraps ErrInvalidShape with a formatted message.
func InvalidShapef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidShape, fmt.Sprintf(format, args...))
}

// InvalidArgumentf wraps ErrInvalidArgument with a formatted message.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// RequirePositive returns an ErrInvalidArgument error if v <= 0.
func RequirePositive(name string, v int) error {
	if v <= 0 {
		return InvalidArgumentf("%s must be > 0: %d", name, v)
	}
	return nil
}

// RequireFinite returns an ErrInvalidArgument error if v is NaN or Inf.
func RequireFinite(name string, v float64) error {
	if !IsFinite(v) {
		return InvalidArgumentf("%s must be finite: %v", name, v)
	}
	return nil
}
