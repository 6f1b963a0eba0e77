// Package common defines shared constants and errors used by the engine,
// the storage layer and the transports. Callers should use errors.Is and
// errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Ciphertext could not be authenticated: tampered, truncated or sealed
	// with another key.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")

	// Auth errors (invalid, malformed or expired session token).
	ErrorInvalidToken = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
)

// ValidationError reports a field value that failed its rule or its
// external verification.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// GenerationError reports a question set that could not be produced: the
// completion call failed or its reply did not satisfy the contract.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("question generation: %s: %v", e.Reason, e.Err)
	}
	return "question generation: " + e.Reason
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PersistenceError reports a failed primary store write.
type PersistenceError struct {
	RecordID string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist record %s: %v", e.RecordID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DecryptionError reports a stored field that could not be decrypted.
type DecryptionError struct {
	RecordID string
	Field    string
	Err      error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("decrypt %s of record %s: %v", e.Field, e.RecordID, e.Err)
}

func (e *DecryptionError) Unwrap() error { return e.Err }

// ConfigurationError is fatal at startup: a missing or malformed key, a key
// that does not match the store, or an unusable setting.
type ConfigurationError struct {
	Setting string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %v", e.Setting, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
