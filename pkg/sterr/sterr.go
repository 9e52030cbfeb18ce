// Package sterr defines the domain-level error kinds shared across the
// silent threshold encryption core. Every exported operation in pkg/curve,
// pkg/polynomial, pkg/kzg, pkg/lagrange, pkg/key, pkg/ste and pkg/ceremony
// returns errors built with New so that callers can branch on Kind without
// parsing strings, and so that no core operation ever leaks secret material
// into a diagnostic (spec.md §7).
package sterr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error. The set is closed and mirrors spec.md §7.
type Kind string

const (
	InvalidParameter Kind = "invalid_parameter"
	Validation       Kind = "validation"
	InvalidThreshold Kind = "invalid_threshold"
	Kzg              Kind = "kzg"
	Msm              Kind = "msm"
	Domain           Kind = "domain"
	Serialization    Kind = "serialization"
	Randomness       Kind = "randomness"
)

// Error is the single error type returned from the core. Op names the
// failing operation (e.g. "AggregateDecrypt"), Kind classifies the failure,
// and Err (optional) wraps the underlying cause.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with no underlying cause.
func New(op string, kind Kind, msg string) *Error {
	return &Error{Op: op, Kind: kind, Err: errors.New(msg)}
}

// Wrap builds an *Error around an existing error.
func Wrap(op string, kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
