package service

import (
	"errors"
	"fmt"
)

// Kind is the caller-visible error taxonomy. Exactly two kinds exist:
// Access for identity/authorization failures, Input for malformed or
// semantically invalid requests.
type Kind int

const (
	KindAccess Kind = iota + 1
	KindInput
)

// Error is the only error type service operations return to callers.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Kind == KindAccess {
		return "access error: " + e.Message
	}
	return "input error: " + e.Message
}

func accessError(format string, args ...any) *Error {
	return &Error{Kind: KindAccess, Message: fmt.Sprintf(format, args...)}
}

func inputError(format string, args ...any) *Error {
	return &Error{Kind: KindInput, Message: fmt.Sprintf(format, args...)}
}

// IsAccess reports whether err is an access-kind service error.
func IsAccess(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindAccess
}

// IsInput reports whether err is an input-kind service error.
func IsInput(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindInput
}
