// Package errors carries typed error codes through the trading engine so
// callers can branch on failure class without string matching.
//
// Codes are grouped by concern:
//   - 1-99 general
//   - 100-199 validation (parameters, configuration, session windows)
//   - 200-299 data and store (queries, snapshots, encoding)
//   - 300-399 indicators (window math, cache rebuild)
//   - 400-499 selection (buy scan, blacklist)
//   - 500-599 sell rules
//   - 600-699 gateway (order submission, account queries)
//   - 700-799 engine and session lifecycle
package errors

import (
	"errors"
	"fmt"
)

// Error pairs a code with a message and an optional cause. It supports
// errors.Is / errors.As chains via Unwrap.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns a coded error without a cause.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf is New with Sprintf formatting.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and context message to an underlying cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf is Wrap with Sprintf formatting. The cause comes first so the
// variadic format arguments can trail.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode returns the code of the first *Error in the chain, or
// ErrCodeUnknown when the chain carries none.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode reports whether the error chain carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientDataError reports a window that is too short for a
// calculation. Indicator rebuilds treat it as a per-symbol skip rather
// than a failure.
type InsufficientDataError struct {
	Required int
	Actual   int
	Symbol   string
	Message  string
}

func (e *InsufficientDataError) Error() string {
	return e.Message
}

// NewInsufficientDataErrorf builds an InsufficientDataError with a
// formatted message.
func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

// IsInsufficientDataError reports whether the chain contains an
// InsufficientDataError.
func IsInsufficientDataError(err error) bool {
	var target *InsufficientDataError

	return errors.As(err, &target)
}
