// Package cryptox implements field-level encryption for candidate records.
//
// Ciphertext tokens are base64url(version || nonce || AES-256-GCM sealed
// bytes). The AEAD key is derived from the 32-byte master key with
// HKDF-SHA256, so the raw master key never touches the cipher.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/talentscout/internal/common"
	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the length of the master key in bytes.
	KeySize = 32

	tokenVersion byte = 0x01
	nonceSize         = 12
)

var (
	encryptionInfo = []byte("talentscout field encryption v1")
	verifierInfo   = []byte("talentscout key verifier v1")

	errKeyMissing = errors.New("not set")
)

// keyEncodings lists the accepted spellings of a 32-byte key. Generators
// emit URL-safe padded base64; the others are accepted for hand-made keys.
var keyEncodings = []*base64.Encoding{
	base64.URLEncoding,
	base64.StdEncoding,
	base64.RawURLEncoding,
	base64.RawStdEncoding,
}

// ParseKey decodes a base64 master key. Any failure is reported as a
// *common.ConfigurationError so the caller can refuse to start.
func ParseKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, &common.ConfigurationError{Setting: common.EncryptionKeyEnv, Err: errKeyMissing}
	}

	for _, enc := range keyEncodings {
		key, err := enc.DecodeString(encoded)
		if err != nil {
			continue
		}
		if len(key) != KeySize {
			return nil, &common.ConfigurationError{
				Setting: common.EncryptionKeyEnv,
				Err:     fmt.Errorf("decoded key is %d bytes, want %d", len(key), KeySize),
			}
		}
		return key, nil
	}

	return nil, &common.ConfigurationError{Setting: common.EncryptionKeyEnv, Err: errors.New("not valid base64")}
}

// LoadKeyFromEnv reads and decodes ENCRYPTION_KEY.
func LoadKeyFromEnv() ([]byte, error) {
	return ParseKey(os.Getenv(common.EncryptionKeyEnv))
}

// GenerateKey returns a fresh master key in the encoding ParseKey expects.
func GenerateKey() string {
	key := common.GenerateRandByteArray(KeySize)
	defer common.WipeByteArray(key)
	return base64.URLEncoding.EncodeToString(key)
}

// MakeVerifier returns a SHA-256 digest that identifies key material without
// revealing it.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// Cipher encrypts and decrypts single string fields. It is safe for
// concurrent use.
type Cipher struct {
	aead     cipher.AEAD
	verifier []byte
}

// NewCipher derives the field key from masterKey. The caller may wipe
// masterKey once NewCipher returns.
func NewCipher(masterKey []byte) (*Cipher, error) {
	if len(masterKey) != KeySize {
		return nil, &common.ConfigurationError{
			Setting: common.EncryptionKeyEnv,
			Err:     fmt.Errorf("key is %d bytes, want %d", len(masterKey), KeySize),
		}
	}

	fieldKey, err := deriveKey(masterKey, encryptionInfo)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(fieldKey)

	verifierKey, err := deriveKey(masterKey, verifierInfo)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(verifierKey)

	block, err := aes.NewCipher(fieldKey)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, err
	}

	return &Cipher{aead: aead, verifier: MakeVerifier(verifierKey)}, nil
}

// NewCipherFromEnv builds a Cipher from ENCRYPTION_KEY and wipes the decoded
// key afterwards.
func NewCipherFromEnv() (*Cipher, error) {
	key, err := LoadKeyFromEnv()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)
	return NewCipher(key)
}

func deriveKey(masterKey, info []byte) ([]byte, error) {
	out := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey, nil, info), out); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return out, nil
}

// Verifier identifies the key this Cipher was built from. Stores keep it to
// detect a process started with a different key.
func (c *Cipher) Verifier() []byte {
	out := make([]byte, len(c.verifier))
	copy(out, c.verifier)
	return out
}

// Encrypt seals plaintext into a token. The empty string maps to itself.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := common.GenerateRandByteArray(nonceSize)

	buf := make([]byte, 0, 1+nonceSize+len(plaintext)+c.aead.Overhead())
	buf = append(buf, tokenVersion)
	buf = append(buf, nonce...)
	buf = c.aead.Seal(buf, nonce, []byte(plaintext), []byte{tokenVersion})

	return base64.URLEncoding.EncodeToString(buf), nil
}

// Decrypt opens a token produced by Encrypt. The empty string maps to
// itself; anything that fails authentication yields
// common.ErrInvalidCiphertext.
func (c *Cipher) Decrypt(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", common.ErrInvalidCiphertext
	}
	if len(raw) < 1+nonceSize+c.aead.Overhead() || raw[0] != tokenVersion {
		return "", common.ErrInvalidCiphertext
	}

	nonce := raw[1 : 1+nonceSize]
	plaintext, err := c.aead.Open(nil, nonce, raw[1+nonceSize:], raw[:1])
	if err != nil {
		return "", common.ErrInvalidCiphertext
	}

	return string(plaintext), nil
}
