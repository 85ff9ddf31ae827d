// Package common defines shared constants and sentinel errors used across
// the linkmark security core. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors. ErrInvalidToken covers malformed, tampered and expired
	// tokens alike; callers must not learn which one it was.
	ErrInvalidToken = errors.New("invalid token")

	// Secret-at-rest errors. ErrDecryptionFailed means the value had the
	// encrypted shape but the authentication tag did not verify (wrong key
	// or corruption). ErrNotEncrypted means the value does not have the
	// encrypted shape at all.
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrNotEncrypted     = errors.New("value is not in encrypted format")

	// Redirect validation.
	ErrRedirectRejected = errors.New("redirect target rejected")
)
