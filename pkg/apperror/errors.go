package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string         `json:"error_code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// WithDetails attaches a details map for the client and returns e.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// ---- API-key authentication & authorization (AUTH) ----

// ErrUnauthenticated is returned when no credential is presented.
func ErrUnauthenticated() *AppError {
	return New("AUTH_001", "API key is required. Provide it in 'X-API-Key' header.", http.StatusUnauthorized)
}

// ErrInvalidCredential is returned when the presented token matches no key.
func ErrInvalidCredential() *AppError {
	return New("AUTH_002", "Invalid API key", http.StatusUnauthorized)
}

// ErrKeyRevoked is returned when the matching key has been deactivated.
func ErrKeyRevoked() *AppError {
	return New("AUTH_003", "API key has been revoked", http.StatusUnauthorized)
}

// ErrKeyExpired is returned when the matching key's expiry is in the past.
func ErrKeyExpired() *AppError {
	return New("AUTH_004", "API key has expired", http.StatusUnauthorized)
}

// ErrPermissionDenied reports a missing capability, enumerating the
// caller's granted set to aid self-diagnosis.
func ErrPermissionDenied(required string, granted []string) *AppError {
	e := New("AUTH_005", fmt.Sprintf("Permission denied. Required permission: %s", required), http.StatusForbidden)
	return e.WithDetails(map[string]any{"granted_permissions": granted})
}

// ErrInvalidToken is returned for a missing or unverifiable session token.
func ErrInvalidToken() *AppError {
	return New("AUTH_006", "Invalid or expired token", http.StatusUnauthorized)
}

// ErrInvalidCredentials is returned for a failed login.
func ErrInvalidCredentials() *AppError {
	return New("AUTH_007", "Invalid credentials", http.StatusUnauthorized)
}

// ErrGuardMisuse marks a permission check running without a resolved
// principal. This is a programming error, not a user-facing auth failure.
func ErrGuardMisuse() *AppError {
	return New("AUTH_500", "permission guard invoked without an authenticated principal", http.StatusInternalServerError)
}

// ---- Resources (RES) ----

func ErrNotFound(entity string) *AppError {
	return New("RES_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ErrInsufficientStock reports a stock conflict with what is available.
func ErrInsufficientStock(available, requested int64) *AppError {
	e := New("RES_002", "Insufficient product quantity", http.StatusConflict)
	return e.WithDetails(map[string]any{"available": available, "requested": requested})
}

func ErrDuplicateEmail() *AppError {
	return New("RES_003", "User already exists", http.StatusConflict)
}

// ---- Validation (VAL) ----

// Validation returns a 400 for a missing or malformed field.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an unexpected error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
