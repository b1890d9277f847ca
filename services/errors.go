package services

import (
	"errors"
)

// Auth workflow outcomes surfaced to handlers. Handlers match these
// with errors.Is and map them onto the response envelope; nothing is
// swallowed except non-critical mail dispatch failure.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidAdminCode   = errors.New("invalid admin code")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrUserNotFound       = errors.New("user not found")
)
