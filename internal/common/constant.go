// Package common contains shared constants, error types and small helpers
// used across the TalentScout components.
package common

// SessionTokenHeaderName is the gRPC metadata key that carries the signed
// session handle on SendMessage and GetTranscript calls.
const SessionTokenHeaderName = "session_token"

// EncryptionKeyEnv names the environment variable holding the base64 encoded
// 32-byte master key. The key is never read from files or flags.
const EncryptionKeyEnv = "ENCRYPTION_KEY"
