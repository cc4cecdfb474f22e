// Package common defines shared constants, sentinel errors and small helpers
// used across the vault layers. Callers should use errors.Is / errors.As to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
	ErrorStorage  = errors.New("storage error")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInvalidInput = errors.New("invalid input")
	ErrorWeakSecret   = errors.New("weak secret")

	// Crypto errors.
	ErrorDecryptionFailed = errors.New("decryption failed")
	ErrorMalformedRecord  = errors.New("malformed record")
	ErrorInvalidKey       = errors.New("invalid key")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// WeakSecretError reports the first password-policy rule a secret violated.
type WeakSecretError struct {
	Rule    string
	Message string
}

func (e *WeakSecretError) Error() string {
	return fmt.Sprintf("%s: %s", ErrorWeakSecret, e.Message)
}

func (e *WeakSecretError) Is(target error) bool {
	return target == ErrorWeakSecret
}

// EntryDecryptionError names the credential that could not be decrypted while
// listing a vault.
type EntryDecryptionError struct {
	EntryID int64
	Err     error
}

func (e *EntryDecryptionError) Error() string {
	return fmt.Sprintf("entry %d: %v", e.EntryID, e.Err)
}

func (e *EntryDecryptionError) Unwrap() error {
	return e.Err
}

func (e *EntryDecryptionError) Is(target error) bool {
	return target == ErrorDecryptionFailed
}
