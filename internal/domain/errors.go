package domain

import (
	"errors"
	"fmt"
)

// ErrorKind groups domain errors by how callers should react to them
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindNotFound
	KindState
	KindDependency
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindState:
		return "state"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Error is the typed error returned by every engine use-case.
// Two errors match under errors.Is when their codes are equal.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrValidation           = &Error{Kind: KindValidation, Code: "validation_failed", Message: "validation failed"}
	ErrJobNotFound          = &Error{Kind: KindNotFound, Code: "job_not_found", Message: "job not found"}
	ErrApplicationNotFound  = &Error{Kind: KindNotFound, Code: "application_not_found", Message: "application not found"}
	ErrJobInactive          = &Error{Kind: KindState, Code: "job_inactive", Message: "job is not accepting applications"}
	ErrDuplicateApplication = &Error{Kind: KindState, Code: "duplicate_application", Message: "applicant already applied to this job"}
	ErrInvalidTransition    = &Error{Kind: KindState, Code: "invalid_transition", Message: "status transition not allowed"}
	ErrAlreadyTerminal      = &Error{Kind: KindState, Code: "already_terminal", Message: "application is already in a terminal state"}
	ErrDependency           = &Error{Kind: KindDependency, Code: "dependency_failed", Message: "dependency failed"}
)

// Validation returns a validation error carrying a field specific message
func Validation(format string, args ...any) error {
	return &Error{
		Kind:    KindValidation,
		Code:    ErrValidation.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap annotates a sentinel with a message and an optional cause
func Wrap(sentinel *Error, msg string, cause error) error {
	return &Error{
		Kind:    sentinel.Kind,
		Code:    sentinel.Code,
		Message: msg,
		Err:     cause,
	}
}

// Dependency wraps a store or driver failure
func Dependency(op string, cause error) error {
	return &Error{
		Kind:    KindDependency,
		Code:    ErrDependency.Code,
		Message: op,
		Err:     cause,
	}
}

// KindOf reports the kind of the first domain error found in err's chain
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// CodeOf reports the code of the first domain error in err's chain
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
