// Package errors provides the application error type used across the feed
// pipeline. Every error is classified by ErrorType, and Wrap accumulates
// context while preserving the cause chain for errors.Is/Unwrap traversal.
package errors

import (
	"errors"
	"fmt"
)

// AppError is the standard error representation across the application.
type AppError struct {
	errType ErrorType // classification of the error
	message string    // human-readable context for the failure
	cause   error     // underlying cause, if any (error chaining)
	stack   []StackFrame
}

// Type returns the classification of the error.
func (e *AppError) Type() ErrorType {
	return e.errType
}

// Message returns the error message without the cause chain.
func (e *AppError) Message() string {
	return e.message
}

// Stack returns the call stack captured when the error was created.
func (e *AppError) Stack() []StackFrame {
	return e.stack
}

// Error implements the standard error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.errType, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.errType, e.message)
}

// Unwrap exposes the cause for errors.Is/errors.As traversal.
func (e *AppError) Unwrap() error {
	return e.cause
}

// New creates a new AppError of the given type.
func New(errType ErrorType, message string) error {
	return &AppError{
		errType: errType,
		message: message,
		stack:   captureStack(defaultCallerSkip),
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(errType ErrorType, format string, args ...any) error {
	return &AppError{
		errType: errType,
		message: fmt.Sprintf(format, args...),
		stack:   captureStack(defaultCallerSkip),
	}
}

// Wrap annotates err with a type and message. Returns nil when err is nil.
func Wrap(err error, errType ErrorType, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		errType: errType,
		message: message,
		cause:   err,
		stack:   captureStack(defaultCallerSkip),
	}
}

// Wrapf annotates err with a type and formatted message. Returns nil when err is nil.
func Wrapf(err error, errType ErrorType, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &AppError{
		errType: errType,
		message: fmt.Sprintf(format, args...),
		cause:   err,
		stack:   captureStack(defaultCallerSkip),
	}
}

// Is reports whether any error in the chain carries the given ErrorType.
func Is(err error, errType ErrorType) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			if appErr.errType == errType {
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// As delegates to the standard errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// RootCause walks the chain and returns the innermost error.
func RootCause(err error) error {
	if err == nil {
		return nil
	}
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}
