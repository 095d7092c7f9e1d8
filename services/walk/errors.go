package walk

import (
	"errors"
	"fmt"
)

// Error codes returned by the walk engine. All are recoverable by the
// caller; the API layer maps them onto HTTP statuses.
const (
	CodeInvalidState        = "invalid_state"
	CodeForbidden           = "forbidden"
	CodePreconditionFailed  = "precondition_failed"
	CodeImplausibleMovement = "implausible_movement"
	CodeNotFound            = "not_found"
	CodeConflict            = "conflict"
)

// Error is a typed walk-engine failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewInvalidState(msg string) error {
	return &Error{Code: CodeInvalidState, Message: msg}
}

func NewForbidden(msg string) error {
	return &Error{Code: CodeForbidden, Message: msg}
}

func NewPreconditionFailed(msg string) error {
	return &Error{Code: CodePreconditionFailed, Message: msg}
}

func NewImplausibleMovement(msg string) error {
	return &Error{Code: CodeImplausibleMovement, Message: msg}
}

func NewNotFound(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func NewConflict(msg string) error {
	return &Error{Code: CodeConflict, Message: msg}
}

// CodeOf returns the walk error code carried by err, or "" for opaque
// (internal) failures.
func CodeOf(err error) string {
	var we *Error
	if errors.As(err, &we) {
		return we.Code
	}
	return ""
}
