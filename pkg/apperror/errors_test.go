package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New("AUTH_002", "Invalid API key", http.StatusUnauthorized)
	assert.Equal(t, "[AUTH_002] Invalid API key", e.Error())

	wrapped := Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, errors.New("boom"))
	assert.Equal(t, "[SYS_001] Internal server error: boom", wrapped.Error())
	assert.EqualError(t, wrapped.Unwrap(), "boom")
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{ErrUnauthenticated(), http.StatusUnauthorized},
		{ErrInvalidCredential(), http.StatusUnauthorized},
		{ErrKeyRevoked(), http.StatusUnauthorized},
		{ErrKeyExpired(), http.StatusUnauthorized},
		{ErrPermissionDenied("order:create", nil), http.StatusForbidden},
		{ErrInvalidToken(), http.StatusUnauthorized},
		{ErrGuardMisuse(), http.StatusInternalServerError},
		{ErrNotFound("Order"), http.StatusNotFound},
		{ErrInsufficientStock(1, 5), http.StatusConflict},
		{Validation("Description is required"), http.StatusBadRequest},
		{InternalError(errors.New("x")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus, tt.err.Code)
	}
}

func TestErrPermissionDenied_EnumeratesGrants(t *testing.T) {
	granted := []string{"order:read", "order:update"}
	e := ErrPermissionDenied("order:create", granted)

	assert.Contains(t, e.Message, "order:create")
	assert.Equal(t, granted, e.Details["granted_permissions"])
}

func TestErrKeyExpired_DistinctFromInvalid(t *testing.T) {
	// The client must be able to tell expiry apart from an unknown token.
	assert.NotEqual(t, ErrInvalidCredential().Code, ErrKeyExpired().Code)
	assert.Contains(t, ErrKeyExpired().Message, "expired")
	assert.Contains(t, ErrKeyRevoked().Message, "revoked")
}

func TestErrInsufficientStock_Details(t *testing.T) {
	e := ErrInsufficientStock(2, 10)
	assert.Equal(t, int64(2), e.Details["available"])
	assert.Equal(t, int64(10), e.Details["requested"])
}
