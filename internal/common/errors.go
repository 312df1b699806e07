package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("requested resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden access")
	ErrBadRequest     = errors.New("bad request")
	ErrValidation     = errors.New("validation failed")
	ErrInternalServer = errors.New("internal server error")
)

// Authentication failures. Each wraps ErrUnauthorized so handlers map
// them to 401 through HTTPStatusFromError while callers can still tell
// them apart with errors.Is.
var (
	ErrNoToken                = fmt.Errorf("no token provided: %w", ErrUnauthorized)
	ErrInvalidToken           = fmt.Errorf("invalid token: %w", ErrUnauthorized)
	ErrTokenExpired           = fmt.Errorf("token expired: %w", ErrUnauthorized)
	ErrNoSession              = fmt.Errorf("no session found: %w", ErrUnauthorized)
	ErrUserNotFound           = fmt.Errorf("user not found: %w", ErrUnauthorized)
	ErrAuthenticationRequired = fmt.Errorf("authentication required: %w", ErrUnauthorized)

	// ErrInvalidCredentials deliberately covers both unknown email and
	// wrong password so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
)

// ErrDuplicateEmail wraps ErrBadRequest: duplicate registration is a 400
// in the API response convention, not a 409.
var ErrDuplicateEmail = fmt.Errorf("email already registered: %w", ErrBadRequest)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}

	// Unique constraint violations that escaped the repository layer.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
