package auth

import "errors"

// Authentication and authorization failures. Callers map every one of them
// to a generic denial; the distinction exists for logs and tests.
var (
	ErrValidation            = errors.New("username and password are required")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrBackendUnavailable    = errors.New("credential backend unavailable")
	ErrTokenMissing          = errors.New("token missing")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenInvalidSignature = errors.New("token signature invalid")
)
