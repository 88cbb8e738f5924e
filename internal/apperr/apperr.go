// Package apperr defines the error taxonomy shared by services and
// handlers. Every failure that crosses the service boundary is one of the
// five kinds below so the transport layer can map it to a status code
// without string matching.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
	KindTransaction
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Unauthorizedf(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Transaction wraps a store-level failure. The message shown to callers is
// generic; the underlying error stays attached for logging.
func Transaction(err error) *Error {
	return &Error{Kind: KindTransaction, Message: "operation failed", Err: err}
}

// KindOf extracts the kind from an error chain, KindUnknown if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
