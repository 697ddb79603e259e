package game

import (
	"errors"
	"fmt"
)

// Kind classifies the recoverable failures the coordinator can report.
type Kind string

// All error kinds surfaced by the game core.
const (
	KindNotFound     Kind = "NOT_FOUND"
	KindInvalidState Kind = "INVALID_STATE"
	KindInvalidMove  Kind = "INVALID_MOVE"
	KindConflict     Kind = "CONFLICT"
	KindValidation   Kind = "VALIDATION_ERROR"
)

// Error is the typed error returned by every rejected operation. Field and
// State carry enough context to explain the rejection to the caller.
type Error struct {
	Kind    Kind
	Message string
	Field   string // offending input field, when known
	State   string // current session status, for invalid-state errors
}

func (e *Error) Error() string {
	return e.Message
}

// ErrNotFound builds the unknown-session error.
func ErrNotFound(id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("game %s not found", id)}
}

// ErrInvalidState reports an operation that is not valid for the session's
// current status.
func ErrInvalidState(msg, state string) *Error {
	return &Error{Kind: KindInvalidState, Message: msg, State: state}
}

// ErrInvalidMove reports a move rejected by the rules engine or malformed
// move input.
func ErrInvalidMove(msg string) *Error {
	return &Error{Kind: KindInvalidMove, Message: msg}
}

// ErrConflict reports a join attempt on an already-full session.
func ErrConflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// ErrValidation reports a malformed input value.
func ErrValidation(msg, field string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Field: field}
}

// KindOf extracts the kind from err, or "" when err is not a game error.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

// IsNotFound reports whether err is an unknown-session error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
