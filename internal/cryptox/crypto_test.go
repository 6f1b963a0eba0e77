package cryptox

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/talentscout/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	key, err := ParseKey(GenerateKey())
	require.NoError(t, err)
	c, err := NewCipher(key)
	require.NoError(t, err)
	return c
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	for _, s := range []string{"jane@example.com", "+14155552671", "Austin, USA", "ü", strings.Repeat("x", 4096)} {
		tok, err := c.Encrypt(s)
		require.NoError(t, err)
		assert.NotEqual(t, s, tok)

		got, err := c.Decrypt(tok)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestEncrypt_EmptyIsIdentity(t *testing.T) {
	c := newTestCipher(t)

	tok, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", tok)

	pt, err := c.Decrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", pt)
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	c := newTestCipher(t)

	a, err := c.Encrypt("same")
	require.NoError(t, err)
	b, err := c.Encrypt("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecrypt_Tampered(t *testing.T) {
	c := newTestCipher(t)

	tok, err := c.Encrypt("secret value")
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(tok)
	require.NoError(t, err)

	for _, i := range []int{0, 1, len(raw) / 2, len(raw) - 1} {
		mut := bytes.Clone(raw)
		mut[i] ^= 0x01
		_, err := c.Decrypt(base64.URLEncoding.EncodeToString(mut))
		assert.ErrorIs(t, err, common.ErrInvalidCiphertext, "flip at %d", i)
	}

	_, err = c.Decrypt(base64.URLEncoding.EncodeToString(raw[:10]))
	assert.ErrorIs(t, err, common.ErrInvalidCiphertext)

	_, err = c.Decrypt("%%% not base64 %%%")
	assert.ErrorIs(t, err, common.ErrInvalidCiphertext)
}

func TestDecrypt_WrongKey(t *testing.T) {
	a := newTestCipher(t)
	b := newTestCipher(t)

	tok, err := a.Encrypt("hello")
	require.NoError(t, err)

	_, err = b.Decrypt(tok)
	assert.ErrorIs(t, err, common.ErrInvalidCiphertext)
	assert.NotEqual(t, a.Verifier(), b.Verifier())
}

func TestVerifier_StableForSameKey(t *testing.T) {
	key, err := ParseKey(GenerateKey())
	require.NoError(t, err)

	a, err := NewCipher(key)
	require.NoError(t, err)
	b, err := NewCipher(key)
	require.NoError(t, err)

	assert.Equal(t, a.Verifier(), b.Verifier())
	assert.Len(t, a.Verifier(), 32)
	assert.NotEqual(t, MakeVerifier(key), a.Verifier())
}

func TestParseKey(t *testing.T) {
	raw := bytes.Repeat([]byte{0xfb}, KeySize)

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"url padded", base64.URLEncoding.EncodeToString(raw), false},
		{"std padded", base64.StdEncoding.EncodeToString(raw), false},
		{"url raw", base64.RawURLEncoding.EncodeToString(raw), false},
		{"surrounding whitespace", "  " + base64.URLEncoding.EncodeToString(raw) + "\n", false},
		{"empty", "", true},
		{"short key", base64.URLEncoding.EncodeToString(raw[:16]), true},
		{"garbage", "not-a-key!!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseKey(tt.in)
			if tt.wantErr {
				var ce *common.ConfigurationError
				require.True(t, errors.As(err, &ce), "got %v", err)
				assert.Equal(t, common.EncryptionKeyEnv, ce.Setting)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, raw, key)
		})
	}
}

func TestNewCipherFromEnv(t *testing.T) {
	t.Setenv(common.EncryptionKeyEnv, "")
	_, err := NewCipherFromEnv()
	var ce *common.ConfigurationError
	require.ErrorAs(t, err, &ce)

	t.Setenv(common.EncryptionKeyEnv, GenerateKey())
	c, err := NewCipherFromEnv()
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestNewCipher_RejectsShortKey(t *testing.T) {
	_, err := NewCipher(make([]byte, 16))
	var ce *common.ConfigurationError
	require.ErrorAs(t, err, &ce)
}
