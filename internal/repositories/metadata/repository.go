// Package metadata stores small key/value facts about the primary store
// itself, such as the verifier of the key its records are sealed with.
package metadata

import "context"

// KeyVerifier holds cryptox.Cipher.Verifier of the key in use.
const KeyVerifier = "key_verifier"

type Repository interface {
	// Get returns nil, nil for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
