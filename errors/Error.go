package errors

import (
	"errors"
	"fmt"
)

// ERR is the numeric error code carried by every *Error.
type ERR int

const (
	ERR_UNKNOWN ERR = iota
	ERR_INVALID_ARGUMENT
	ERR_NOT_FOUND
	ERR_PROCESSING
	ERR_CONFIGURATION
	ERR_BLOCK_NOT_FOUND
	ERR_BLOCK_INVALID
	ERR_TX_NOT_FOUND
	ERR_TX_INVALID
	ERR_STORAGE_ERROR
	ERR_STORAGE_NOT_STARTED
)

var errNames = map[ERR]string{
	ERR_UNKNOWN:             "ERR_UNKNOWN",
	ERR_INVALID_ARGUMENT:    "ERR_INVALID_ARGUMENT",
	ERR_NOT_FOUND:           "ERR_NOT_FOUND",
	ERR_PROCESSING:          "ERR_PROCESSING",
	ERR_CONFIGURATION:       "ERR_CONFIGURATION",
	ERR_BLOCK_NOT_FOUND:     "ERR_BLOCK_NOT_FOUND",
	ERR_BLOCK_INVALID:       "ERR_BLOCK_INVALID",
	ERR_TX_NOT_FOUND:        "ERR_TX_NOT_FOUND",
	ERR_TX_INVALID:          "ERR_TX_INVALID",
	ERR_STORAGE_ERROR:       "ERR_STORAGE_ERROR",
	ERR_STORAGE_NOT_STARTED: "ERR_STORAGE_NOT_STARTED",
}

func (e ERR) String() string {
	if name, ok := errNames[e]; ok {
		return name
	}

	return fmt.Sprintf("ERR(%d)", int(e))
}

// Error is the error type used throughout the index. It carries a code, a
// formatted message and an optional wrapped error.
type Error struct {
	code       ERR
	message    string
	wrappedErr error
}

// New creates a new *Error with the given code and message. If the last
// params element is an error it is wrapped rather than formatted into the
// message, mirroring fmt.Errorf's %w behaviour without the verb.
func New(code ERR, message string, params ...interface{}) *Error {
	var wrappedErr error

	if len(params) > 0 {
		if err, ok := params[len(params)-1].(error); ok {
			wrappedErr = err
			params = params[:len(params)-1]
		}
	}

	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}

	return &Error{
		code:       code,
		message:    message,
		wrappedErr: wrappedErr,
	}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.wrappedErr == nil {
		return fmt.Sprintf("%s (%d): %s", e.code, e.code, e.message)
	}

	return fmt.Sprintf("%s (%d): %s: %v", e.code, e.code, e.message, e.wrappedErr)
}

// Is reports whether target carries the same error code, unwrapping as needed.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}

	targetErr, ok := target.(*Error)
	if !ok {
		return false
	}

	if e.code == targetErr.code {
		return true
	}

	if e.wrappedErr != nil {
		return errors.Is(e.wrappedErr, target)
	}

	return false
}

func (e *Error) As(target interface{}) bool {
	if e == nil {
		return false
	}

	if targetErr, ok := target.(**Error); ok {
		*targetErr = e
		return true
	}

	if e.wrappedErr != nil {
		return errors.As(e.wrappedErr, target)
	}

	return false
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.wrappedErr
}

// Code returns the error code, ERR_UNKNOWN for nil receivers.
func (e *Error) Code() ERR {
	if e == nil {
		return ERR_UNKNOWN
	}

	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}

	return e.message
}

// Is delegates to the standard library so callers only need this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}
