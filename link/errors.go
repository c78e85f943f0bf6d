package link

import (
	"errors"
	"fmt"

	"github.com/kernelink/kernelink/expr"
)

// Sentinel errors for the channel taxonomy. Match with errors.Is.
var (
	// ErrUnsupportedInput marks a normalizer input of an unrecognized
	// runtime type.
	ErrUnsupportedInput = errors.New("unsupported input type")

	// ErrInvalidExpression marks source text that parsed to zero or more
	// than one top-level unit.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrLinkFailure marks an I/O-level channel failure. It is always
	// surfaced, never retried here.
	ErrLinkFailure = errors.New("link failure")

	// ErrEngineEvaluation marks a kernel-reported evaluation failure,
	// surfaced only under strict configuration.
	ErrEngineEvaluation = errors.New("engine evaluation failed")
)

// UnsupportedInputError names the offending runtime type handed to the
// normalizer.
type UnsupportedInputError struct {
	Value any
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("unsupported input type %T", e.Value)
}

func (e *UnsupportedInputError) Unwrap() error { return ErrUnsupportedInput }

// LinkFailureError wraps an I/O failure reported by the underlying link,
// tagged with the channel operation that observed it.
type LinkFailureError struct {
	Op    string // "submit" or "await"
	Cause error
}

func (e *LinkFailureError) Error() string {
	return fmt.Sprintf("link failure during %s: %v", e.Op, e.Cause)
}

func (e *LinkFailureError) Unwrap() []error { return []error{ErrLinkFailure, e.Cause} }

// EngineError carries the kernel's own failure expression so callers can
// inspect it.
type EngineError struct {
	Expr *expr.Expr
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine evaluation failed: %s", e.Expr)
}

func (e *EngineError) Unwrap() error { return ErrEngineEvaluation }
