package auth

import "errors"

// Error kinds surfaced by the auth service. Handlers map these onto HTTP
// status codes and user-facing messages; internal detail never leaves here.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrAccountLocked     = errors.New("account locked")
	ErrBadPassword       = errors.New("bad password")
	ErrInvalidState      = errors.New("operation not valid in current state")
	ErrInvalidCode       = errors.New("invalid two-factor code")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrWeakPassword      = errors.New("password does not meet policy")
	ErrDuplicateUsername = errors.New("username already exists")
)
