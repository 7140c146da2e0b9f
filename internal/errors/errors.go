package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid or missing input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInvalidCredential indicates a failed secret verification during sign-in.
	ErrCodeInvalidCredential ErrorCode = "invalid_credential"
	// ErrCodeForbidden indicates the caller is authenticated but not allowed.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeStorage indicates a storage-layer fault the caller may retry.
	ErrCodeStorage ErrorCode = "storage_fault"
	// ErrCodeTokenSignature indicates a session token with a bad signature.
	ErrCodeTokenSignature ErrorCode = "token_invalid_signature"
	// ErrCodeTokenExpired indicates an expired session token.
	ErrCodeTokenExpired ErrorCode = "token_expired"
	// ErrCodeTokenMalformed indicates a session token that could not be parsed.
	ErrCodeTokenMalformed ErrorCode = "token_malformed"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
//
// Messages must never contain plaintext secrets or credential verifiers.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// MissingField creates a Validation error for a required field that is absent.
func MissingField(field string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: field + " is required", Field: field}
}

// InvalidCredential creates an InvalidCredential error.
func InvalidCredential(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidCredential, Message: message}
}

// Forbidden creates a Forbidden error.
func Forbidden(message string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message}
}

// Storage creates a StorageFault error.
func Storage(message string) *AppError {
	return &AppError{Code: ErrCodeStorage, Message: message}
}

// TokenSignature creates a token signature error.
func TokenSignature(message string) *AppError {
	return &AppError{Code: ErrCodeTokenSignature, Message: message}
}

// TokenExpired creates a token expiry error.
func TokenExpired(message string) *AppError {
	return &AppError{Code: ErrCodeTokenExpired, Message: message}
}

// TokenMalformed creates a token parse error.
func TokenMalformed(message string) *AppError {
	return &AppError{Code: ErrCodeTokenMalformed, Message: message}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsInvalidCredential checks if an error is an InvalidCredential error.
func IsInvalidCredential(err error) bool { return isCode(err, ErrCodeInvalidCredential) }

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool { return isCode(err, ErrCodeForbidden) }

// IsStorage checks if an error is a StorageFault error.
func IsStorage(err error) bool { return isCode(err, ErrCodeStorage) }

// IsTokenFailure checks if an error is any of the token-decode failures.
func IsTokenFailure(err error) bool {
	return isCode(err, ErrCodeTokenSignature) ||
		isCode(err, ErrCodeTokenExpired) ||
		isCode(err, ErrCodeTokenMalformed)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
