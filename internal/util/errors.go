// Package util provides shared utilities for the route-matching library.
//
// # Error Conventions
//
// This project follows a standardized error pattern across all packages:
//
//   - Sentinel errors (errors.New) for well-known, stable conditions
//     that callers check with errors.Is(). Example: ErrTableClosed.
//   - Structured error types for context-rich errors that carry
//     additional fields (e.g., AddressParseError, ResourceError). Each
//     type implements Error(), Unwrap() (if wrapping), and Is().
//   - fmt.Errorf with %w for ad-hoc wrapping that adds context to an
//     existing error without introducing a new type.
//
// All custom error types must implement:
//
//	Error() string           – human-readable message
//	Unwrap() error           – if the type wraps another error
//	Is(target error) bool    – for errors.Is() compatibility
package util

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAddressParse    = errors.New("invalid address")
	ErrResource        = errors.New("prefix index resource failure")
	ErrTableClosed     = errors.New("route table released")
)

// InvalidArgumentError reports a malformed caller-supplied value.
type InvalidArgumentError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

// Is checks if the error matches the target.
func (e *InvalidArgumentError) Is(target error) bool {
	if target == ErrInvalidArgument {
		return true
	}
	_, ok := target.(*InvalidArgumentError)
	return ok
}

// NewInvalidArgumentError creates a new InvalidArgumentError.
func NewInvalidArgumentError(field, message string) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Message: message}
}

// AddressParseError reports an address constraint that is neither a valid
// IPv4 nor a valid IPv6 literal, or carries an out-of-range prefix length.
type AddressParseError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *AddressParseError) Error() string {
	return fmt.Sprintf("invalid address %q: %s", e.Input, e.Reason)
}

// Is checks if the error matches the target.
func (e *AddressParseError) Is(target error) bool {
	if target == ErrAddressParse || target == ErrInvalidArgument {
		return true
	}
	_, ok := target.(*AddressParseError)
	return ok
}

// NewAddressParseError creates a new AddressParseError.
func NewAddressParseError(input, reason string) *AddressParseError {
	return &AddressParseError{Input: input, Reason: reason}
}

// ResourceError reports a failure of the underlying prefix-index engine.
type ResourceError struct {
	Op    string
	Cause error
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("prefix index %s failed: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("prefix index %s failed", e.Op)
}

// Unwrap returns the underlying error.
func (e *ResourceError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ResourceError) Is(target error) bool {
	if target == ErrResource {
		return true
	}
	_, ok := target.(*ResourceError)
	return ok || errors.Is(e.Cause, target)
}

// NewResourceError creates a new ResourceError.
func NewResourceError(op string, cause error) *ResourceError {
	return &ResourceError{Op: op, Cause: cause}
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
