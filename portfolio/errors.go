package portfolio

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines portfolio error kinds.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindFetch      ErrorKind = "fetch"
	KindExport     ErrorKind = "export"
	KindTimeout    ErrorKind = "timeout"
	KindCanceled   ErrorKind = "canceled"
	KindInternal   ErrorKind = "internal"
)

// Error wraps errors with a kind.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new portfolio error.
func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindFromError maps an error to its portfolio error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	return KindInternal
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindFromError(err)
	msg := err.Error()

	var pe *Error
	if errors.As(err, &pe) && pe.Msg != "" {
		msg = pe.Msg
	}

	switch kind {
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("not_found")
	case KindFetch:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("fetch")
	case KindExport:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("export")
	case KindTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}
