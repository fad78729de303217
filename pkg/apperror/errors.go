package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error independently of its transport status code
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindCrossTenant        Kind = "CROSS_TENANT"
	KindConflict           Kind = "CONFLICT"
	KindInsufficientCredit Kind = "INSUFFICIENT_CREDIT"
	KindInsufficientStock  Kind = "INSUFFICIENT_STOCK"
	KindUnbalanced         Kind = "UNBALANCED"
	KindInvalidAmount      Kind = "INVALID_AMOUNT"
	KindIllegalState       Kind = "ILLEGAL_STATE"
	KindValidation         Kind = "VALIDATION"
	KindBadRequest         Kind = "BAD_REQUEST"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindForbidden          Kind = "FORBIDDEN"
	KindInternal           Kind = "INTERNAL"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is reports kind equality so sentinel errors can be matched with errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
}

// Common errors
var (
	ErrNotFound     = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden    = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrBadRequest   = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrConflict     = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource already exists"}
	ErrBusy         = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource is busy, retry the request"}
	ErrInvalidToken = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid token"}
)

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewCrossTenantError is returned when an entity exists but belongs to another tenant
func NewCrossTenantError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Kind:    KindCrossTenant,
		Message: "Unauthorized access to " + resource,
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewInsufficientCreditError reports a store credit deduction larger than the balance
func NewInsufficientCreditError(available fmt.Stringer) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindInsufficientCredit,
		Message: "Insufficient store credit. Available: " + available.String(),
	}
}

// NewInsufficientStockError reports a stock decrement that would go below zero
func NewInsufficientStockError(sku string, available fmt.Stringer) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for %s. Available: %s", sku, available),
	}
}

// NewUnbalancedError reports a journal entry whose debits and credits differ
func NewUnbalancedError(debits, credits fmt.Stringer) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindUnbalanced,
		Message: fmt.Sprintf("Journal entry is not balanced. Debits: %s, Credits: %s", debits, credits),
	}
}

// NewInvalidAmountError creates an error for a non-positive or out-of-range amount
func NewInvalidAmountError(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindInvalidAmount,
		Message: message,
	}
}

// NewIllegalStateError signals a programming or context error, such as a write with no tenant bound
func NewIllegalStateError(message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindIllegalState,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// IsKind reports whether err, or anything it wraps, is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
	}
}
