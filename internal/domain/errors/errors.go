// Package errors defines application-level error types carrying HTTP and
// business error codes alongside user-facing messages.
package errors

import (
	"net/http"

	"hotellee/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Validation errors are rejected locally, before any write reaches the store.
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	ErrPhoneInvalid = NewBaseError(
		http.StatusBadRequest,
		"PHONE_INVALID",
		"Please provide a valid contact number (at least 10 digits)",
		"",
	)

	ErrAddressInvalid = NewBaseError(
		http.StatusBadRequest,
		"ADDRESS_INVALID",
		"Please provide a complete delivery address",
		"",
	)

	// User and session errors
	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"This email is already registered",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Incorrect email or password",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"Please sign in to continue",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	ErrProfileNotFound = NewBaseError(
		http.StatusNotFound,
		"PROFILE_NOT_FOUND",
		"No profile found for this account",
		"",
	)

	// Cart and order errors
	ErrCartEmpty = NewBaseError(
		http.StatusBadRequest,
		"CART_EMPTY",
		"Your cart is empty",
		"",
	)

	ErrMenuItemNotFound = NewBaseError(
		http.StatusNotFound,
		"MENU_ITEM_NOT_FOUND",
		"This menu item does not exist",
		"",
	)

	ErrMenuItemUnavailable = NewBaseError(
		http.StatusConflict,
		"MENU_ITEM_UNAVAILABLE",
		"This menu item is currently unavailable",
		"",
	)

	ErrCategoryNotFound = NewBaseError(
		http.StatusNotFound,
		"CATEGORY_NOT_FOUND",
		"This category does not exist",
		"",
	)

	ErrOrderNotFound = NewBaseError(
		http.StatusNotFound,
		"ORDER_NOT_FOUND",
		"This order does not exist",
		"",
	)

	ErrOrderStatusInvalid = NewBaseError(
		http.StatusBadRequest,
		"ORDER_STATUS_INVALID",
		"Unknown order status",
		"",
	)

	// ErrOrderStatusFinal rejects any transition out of delivered/cancelled.
	ErrOrderStatusFinal = NewBaseError(
		http.StatusConflict,
		"ORDER_STATUS_FINAL",
		"This order has reached a final status and can no longer change",
		"",
	)

	ErrOrderTransitionIllegal = NewBaseError(
		http.StatusConflict,
		"ORDER_TRANSITION_ILLEGAL",
		"This status change is not allowed",
		"",
	)

	// General errors
	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"Resource conflict",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// RemoteOperationError wraps a failed call to the hosted store or identity
// service. It is surfaced as a transient failure; the operation is safe to
// re-trigger and no automatic retry is performed.
type RemoteOperationError struct {
	err     error
	details string
}

// NewRemoteOperationError creates a remote-operation error
func NewRemoteOperationError(err error, details string) AppError {
	return &RemoteOperationError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *RemoteOperationError) Error() string {
	return errors.Wrap(e.err, "remote operation failed").Error()
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *RemoteOperationError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *RemoteOperationError) HTTPCode() int {
	return http.StatusBadGateway
}

// ErrorCode returns the business error code
func (e *RemoteOperationError) ErrorCode() string {
	return "REMOTE_OPERATION_FAILED"
}

// Message returns the user-friendly error message
func (e *RemoteOperationError) Message() string {
	return "The service is temporarily unavailable, please try again"
}

// Details returns detailed error information
func (e *RemoteOperationError) Details() string {
	return e.details
}
