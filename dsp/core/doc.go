// Package core holds the error taxonomy and small numeric helpers shared by
// the spectral, feature and codec packages.
//
// Validation failures are reported by wrapping one of the sentinel errors
// [ErrInvalidShape] or [ErrInvalidArgument], so callers can branch with
// errors.Is regardless of which package produced the error.
package core
