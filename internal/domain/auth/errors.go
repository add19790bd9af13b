package auth

import "errors"

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
	ErrMissingToken    = errors.New("login response did not include a token")
)
