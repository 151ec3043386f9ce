package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking
// infrastructure details. The set is closed: every failure an operation may
// surface to a client is one of these.
var (
	// Validation.
	ErrIllegalPassword = errors.New("illegal password")
	ErrIllegalCode     = errors.New("illegal code")
	ErrBadRequest      = errors.New("bad request")

	// Auth. ErrSignInFailed is deliberately the only error returned for both
	// unknown email and wrong password.
	ErrSignInFailed  = errors.New("sign in failed")
	ErrWrongPassword = errors.New("wrong password")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("expired token")

	// Forbidden.
	ErrNotVerified = errors.New("email not verified")

	// Not found. Never returned from sign-in.
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailNotFound = errors.New("email not found")

	// Gone.
	ErrVerificationExpired = errors.New("verification expired")

	// Conflict.
	ErrDuplicateEmail = errors.New("duplicate email")

	// Infrastructure.
	ErrMalformedHash = errors.New("malformed password hash")
)
