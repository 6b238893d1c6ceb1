package platformerrors

import (
	"context"
	"errors"
	"fmt"
)

// Layer identifies where in the stack an error was raised.
type Layer string

const (
	LayerDomain         Layer = "domain"
	LayerRepository     Layer = "repository"
	LayerInfrastructure Layer = "infrastructure"
	LayerHandler        Layer = "handler"
)

// ErrorType classifies an error for transport-level mapping.
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeForbidden      ErrorType = "forbidden"
	ErrorTypeUnauthorized   ErrorType = "unauthorized"
	ErrorTypeConflict       ErrorType = "conflict"
	ErrorTypeTimeout        ErrorType = "timeout"
	ErrorTypeExternal       ErrorType = "external"
	ErrorTypeUnavailable    ErrorType = "unavailable"
	ErrorTypeDatabaseError  ErrorType = "database_error"
	ErrorTypeInternal       ErrorType = "internal"
	ErrorTypeNotImplemented ErrorType = "not_implemented"
)

// PlatformError is the structured error carried across layers. Message is
// safe to show to callers; Err keeps the wrapped cause for logs.
type PlatformError struct {
	Layer   Layer
	Type    ErrorType
	Message string
	Code    string
	Err     error
}

func (e *PlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s/%s] %s: %v", e.Layer, e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s/%s] %s", e.Layer, e.Type, e.Message)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NewError creates a structured error with an explicit type. The code is a
// stable identifier logged alongside the error for support lookups.
func NewError(_ context.Context, layer Layer, errType ErrorType, message string, err error, code string) error {
	return &PlatformError{
		Layer:   layer,
		Type:    errType,
		Message: message,
		Code:    code,
		Err:     err,
	}
}

// NewErrorWithContext is NewError for call sites that already carry the
// code inside the message.
func NewErrorWithContext(ctx context.Context, layer Layer, errType ErrorType, message string, err error) error {
	return NewError(ctx, layer, errType, message, err, "")
}

// AsError wraps err in the given layer. If err already carries a platform
// type it is preserved so classification survives layer crossings.
func AsError(ctx context.Context, layer Layer, err error, message string) error {
	return AsErrorWithUUID(ctx, layer, err, message, "")
}

// AsErrorWithUUID is AsError with a stable error code attached.
func AsErrorWithUUID(_ context.Context, layer Layer, err error, message string, code string) error {
	if err == nil {
		return nil
	}
	var pe *PlatformError
	if errors.As(err, &pe) {
		return &PlatformError{
			Layer:   layer,
			Type:    pe.Type,
			Message: message,
			Code:    code,
			Err:     err,
		}
	}
	return &PlatformError{
		Layer:   layer,
		Type:    ErrorTypeInternal,
		Message: message,
		Code:    code,
		Err:     err,
	}
}

// IsErrorType reports whether err (or anything it wraps) carries the given
// platform error type.
func IsErrorType(err error, errType ErrorType) bool {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Type == errType
	}
	return false
}

// IsValidationError is a convenience for the most common classification.
func IsValidationError(err error) bool {
	return IsErrorType(err, ErrorTypeValidation)
}

// TypeOf extracts the platform error type, defaulting to internal for
// unclassified errors.
func TypeOf(err error) ErrorType {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Type
	}
	return ErrorTypeInternal
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return "internal server error"
}
