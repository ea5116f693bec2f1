// Package common defines shared constants and sentinel errors used across
// the server layers of hrkeeper. Callers should use errors.Is to match
// these values; lower layers wrap them with fmt.Errorf("...: %w", err).
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("invalid username or password")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Uniqueness conflicts.
	ErrUsernameTaken   = errors.New("username already exists")
	ErrNationalIDTaken = errors.New("national id already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenMissing = errors.New("token required")

	// Attendance policy violations.
	ErrOutsideWindow    = errors.New("check-in is outside the allowed time window")
	ErrAlreadyCheckedIn = errors.New("you have already checked in today")

	// Signature policy violations.
	ErrSignatureRequired = errors.New("signature file is required")
	ErrSignatureType     = errors.New("signature must be PNG or JPEG")
	ErrSignatureTooLarge = errors.New("signature image is too large")

	// Login throttling.
	ErrTooManyAttempts = errors.New("too many login attempts")
)

// IsConflict reports whether err is one of the uniqueness conflicts.
func IsConflict(err error) bool {
	return errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrNationalIDTaken)
}

// IsPolicyViolation reports whether err is a business-rule rejection that the
// caller can fix or wait out, as opposed to malformed input or a server fault.
func IsPolicyViolation(err error) bool {
	switch {
	case errors.Is(err, ErrOutsideWindow),
		errors.Is(err, ErrAlreadyCheckedIn),
		errors.Is(err, ErrSignatureRequired),
		errors.Is(err, ErrSignatureType),
		errors.Is(err, ErrSignatureTooLarge):
		return true
	}
	return false
}
