// Package ztron error taxonomy.
//
// Every failure of a build attempt is terminal: the builder never retries
// and never returns a partial result. Errors carry a stable machine code so
// callers can branch without string matching, plus an optional cause for
// `errors.Is`/`errors.As` chains.
package ztron

import (
	"errors"
	"fmt"
)

// Error codes for the build pipeline.
const (
	// Structural-limit and shape errors.
	ErrInvalidTransaction = "INVALID_TRANSACTION"

	// A later spend's authentication path roots to a different anchor
	// than the one pinned by the first spend.
	ErrAnchorMismatch = "ANCHOR_MISMATCH"

	// Malformed destination address (diversifier has no valid group hash).
	ErrInvalidAddress = "INVALID_ADDRESS"

	// Negative, overflowing, or non-representable value.
	ErrInvalidAmount = "INVALID_AMOUNT"

	// Declared value balance does not reconcile with the scaled
	// transparent leg amount.
	ErrAmountMismatch = "AMOUNT_MISMATCH"

	// Reserved for future change-output support. Unused today but part of
	// the taxonomy so callers can already handle them.
	ErrChangeIsNegative = "CHANGE_IS_NEGATIVE"
	ErrNoChangeAddress  = "NO_CHANGE_ADDRESS"

	// The proving capability failed to produce a spend or output proof.
	ErrSpendProof = "SPEND_PROOF_FAILED"

	// The proving capability failed to produce the binding signature.
	// Reported distinctly from proof failure.
	ErrBindingSig = "BINDING_SIG_FAILED"

	// Burn payload construction is explicitly unsupported; its balance
	// precondition is still enforced before this is returned.
	ErrBurnNotImplemented = "BURN_NOT_IMPLEMENTED"

	// Build was called on an already-consumed builder, or a leg was added
	// after Build. A contract violation by the caller, not a recoverable
	// condition.
	ErrBuilderConsumed = "BUILDER_CONSUMED"
)

// Error is the structured error returned by the build pipeline.
type Error struct {
	Code    string // one of the Err* constants
	Message string // human-readable description
	Cause   error  // underlying error, if any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ztron [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("ztron [%s]: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError builds an Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf builds an Error with a formatted message.
func Errorf(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an Error that records an underlying cause.
func WrapError(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the error code from err, or "" if err is not a ztron
// Error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
