package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("WAL_002", "Insufficient balance", http.StatusPaymentRequired),
			expected: "[WAL_002] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "Persistence failure", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] Persistence failure: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("WAL_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestWalletErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidAmount", ErrInvalidAmount(), "WAL_001", 400},
		{"InsufficientFunds", ErrInsufficientFunds(), "WAL_002", 402},
		{"InvalidScheduleConfig", ErrInvalidScheduleConfig(fmt.Errorf("gap")), "WAL_003", 500},
		{"NotFound", ErrNotFound("Account"), "WAL_004", 404},
		{"CurrencyMismatch", ErrCurrencyMismatch(), "WAL_005", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidCredentials", ErrInvalidCredentials(), "AUTH_001", 401},
		{"PhoneExists", ErrPhoneExists(), "AUTH_002", 409},
		{"InvalidToken", ErrInvalidToken(), "AUTH_003", 401},
		{"InvalidOTP", ErrInvalidOTP(), "AUTH_004", 401},
		{"UserBlocked", ErrUserBlocked(), "AUTH_005", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	persistErr := ErrPersistence(inner)
	assert.Equal(t, "SYS_001", persistErr.Code)
	assert.Equal(t, 500, persistErr.HTTPStatus)
	assert.True(t, errors.Is(persistErr, inner))

	intErr := InternalError(inner)
	assert.Equal(t, "SYS_002", intErr.Code)
	assert.Equal(t, 500, intErr.HTTPStatus)
}

func TestRateLimitError(t *testing.T) {
	err := ErrRateLimitExceeded()
	assert.Equal(t, "RATE_001", err.Code)
	assert.Equal(t, 429, err.HTTPStatus)
}

func TestNotFoundEntity(t *testing.T) {
	err := ErrNotFound("Transaction")
	assert.Contains(t, err.Message, "Transaction")
	assert.Equal(t, "WAL_004", err.Code)
}
