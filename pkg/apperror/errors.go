package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
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

// ---- Wallet Business Logic (WAL) ----

func ErrInvalidAmount() *AppError {
	return New("WAL_001", "Invalid amount", http.StatusBadRequest)
}

func ErrInsufficientFunds() *AppError {
	return New("WAL_002", "Insufficient balance", http.StatusPaymentRequired)
}

func ErrInvalidScheduleConfig(err error) *AppError {
	return Wrap("WAL_003", "Invalid fee schedule configuration", http.StatusInternalServerError, err)
}

func ErrNotFound(entity string) *AppError {
	return New("WAL_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrCurrencyMismatch() *AppError {
	return New("WAL_005", "Currency mismatch", http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrPhoneExists() *AppError {
	return New("AUTH_002", "Phone number already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrInvalidOTP() *AppError {
	return New("AUTH_004", "Invalid or expired verification code", http.StatusUnauthorized)
}

func ErrUserBlocked() *AppError {
	return New("AUTH_005", "Account is blocked", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// ErrPersistence wraps a store write/read failure. The ledger operation that
// hit it must not be considered committed.
func ErrPersistence(err error) *AppError {
	return Wrap("SYS_001", "Persistence failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_002 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_002", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a WAL_001-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("WAL_001", message, http.StatusBadRequest)
}
