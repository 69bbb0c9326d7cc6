// Package errs is the error taxonomy shared by the engine, the storage adapters and the HTTP layer.
package errs

import (
	"errors"
	"fmt"
)

// Code classifies an AppError.
type Code int

const (
	Internal Code = 1000 + iota
	Unavailable
	PartialWrite
)

const (
	Unauthenticated Code = 2000 + iota
	Forbidden
)

const (
	Validation Code = 3000 + iota
	NotFound
	TogglePending
	Disposed
)

var codeNames = map[Code]string{
	Internal:        "internal",
	Unavailable:     "unavailable",
	PartialWrite:    "partial write",
	Unauthenticated: "unauthenticated",
	Forbidden:       "forbidden",
	Validation:      "validation",
	NotFound:        "not found",
	TogglePending:   "toggle pending",
	Disposed:        "disposed",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Sentinels for errors.Is. Matching is by code only.
var (
	ErrInternal        = &AppError{Code: Internal}
	ErrUnavailable     = &AppError{Code: Unavailable}
	ErrPartialWrite    = &AppError{Code: PartialWrite}
	ErrUnauthenticated = &AppError{Code: Unauthenticated}
	ErrForbidden       = &AppError{Code: Forbidden}
	ErrValidation      = &AppError{Code: Validation}
	ErrNotFound        = &AppError{Code: NotFound}
	ErrTogglePending   = &AppError{Code: TogglePending}
	ErrDisposed        = &AppError{Code: Disposed}
)

// AppError carries a Code, a human message and an optional cause.
type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// New creates an AppError without a cause.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf is New with formatting.
func Newf(code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to err. A nil err yields nil.
func Wrap(code Code, message string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the outermost AppError in err's chain, or Internal.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return Internal
}

// IsRetryable reports whether the operation may be retried as is.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
