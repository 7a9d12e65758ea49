package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error that knows which HTTP status it maps to
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	cause   error
}

// FieldError describes a single rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the underlying failure for errors.Is / errors.As
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches two AppErrors by status code and message so sentinels can be
// compared with errors.Is even after being wrapped.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// Point-of-sale errors shown to the cashier as-is
var (
	ErrOutOfStock         = &AppError{Code: http.StatusBadRequest, Message: "Product out of stock"}
	ErrInsufficientStock  = &AppError{Code: http.StatusBadRequest, Message: "Not enough stock available"}
	ErrInvalidDiscount    = &AppError{Code: http.StatusBadRequest, Message: "Discount must be between 0 and 100"}
	ErrEmptyCart          = &AppError{Code: http.StatusBadRequest, Message: "Cart is empty"}
	ErrInsufficientCash   = &AppError{Code: http.StatusBadRequest, Message: "Insufficient cash received"}
	ErrPaymentExceedsLoan = &AppError{Code: http.StatusBadRequest, Message: "Payment amount exceeds loan balance"}
	ErrInvalidAmount      = &AppError{Code: http.StatusBadRequest, Message: "Amount must be greater than zero"}
	ErrPrinterUnavailable = &AppError{Code: http.StatusServiceUnavailable, Message: "Printer is not connected"}
	ErrCheckoutInProgress = &AppError{Code: http.StatusConflict, Message: "Checkout already in progress"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldError is a shorthand for a validation error on one field
func NewFieldError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// Internal wraps an unexpected failure. The response carries a generic
// message while the cause stays available to logs.
func Internal(message string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: message,
		cause:   cause,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}
