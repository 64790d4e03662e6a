package service

import (
	"encoding/hex"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/siteapi/internal/crypto/domain"
	apperrors "github.com/allisson/siteapi/internal/errors"
)

var envelopePattern = regexp.MustCompile(`^[0-9a-f]{32}:[0-9a-f]+$`)

func newTestCipher(t *testing.T, passphrase string) *PiiCipher {
	t.Helper()
	c, err := NewPiiCipher(passphrase)
	require.NoError(t, err)
	return c
}

func TestNewPiiCipher(t *testing.T) {
	t.Run("Empty passphrase", func(t *testing.T) {
		c, err := NewPiiCipher("")
		assert.Nil(t, c)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Independent keys", func(t *testing.T) {
		c := newTestCipher(t, "correct horse battery staple")
		assert.Len(t, c.encKey, 32)
		assert.NotEqual(t, c.encKey, c.macKey)
		assert.NotEqual(t, c.encKey, c.lookupKey)
		assert.NotEqual(t, c.macKey, c.lookupKey)
	})

	t.Run("Same passphrase same keys", func(t *testing.T) {
		a := newTestCipher(t, "passphrase")
		b := newTestCipher(t, "passphrase")

		envelope, err := a.EncryptField("0901234567")
		require.NoError(t, err)
		plaintext, err := b.DecryptField(envelope)
		require.NoError(t, err)
		assert.Equal(t, "0901234567", plaintext)
	})
}

func TestPiiCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t, "passphrase")

	t.Run("Phone number", func(t *testing.T) {
		envelope, err := c.EncryptField("0901234567")
		require.NoError(t, err)
		assert.Regexp(t, envelopePattern, envelope)

		plaintext, err := c.DecryptField(envelope)
		require.NoError(t, err)
		assert.Equal(t, "0901234567", plaintext)
	})

	inputs := []string{"", "a", "exactly16bytes!!", strings.Repeat("x", 100), "+84 (090) 123-4567", "số điện thoại"}
	for _, input := range inputs {
		envelope, err := c.EncryptField(input)
		require.NoError(t, err)

		plaintext, err := c.DecryptField(envelope)
		require.NoError(t, err)
		assert.Equal(t, input, plaintext)
	}
}

func TestPiiCipher_EncryptFieldIsNotDeterministic(t *testing.T) {
	c := newTestCipher(t, "passphrase")

	first, err := c.EncryptField("0901234567")
	require.NoError(t, err)
	second, err := c.EncryptField("0901234567")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, first[:32], second[:32])
}

func TestPiiCipher_DecryptFieldFailures(t *testing.T) {
	c := newTestCipher(t, "passphrase")
	envelope, err := c.EncryptField("0901234567")
	require.NoError(t, err)
	ivHex, bodyHex, _ := strings.Cut(envelope, ":")

	flip := func(s string, i int) string {
		b := []byte(s)
		if b[i] == '0' {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
		return string(b)
	}

	tests := []struct {
		name     string
		envelope string
	}{
		{"Empty", ""},
		{"No separator", ivHex + bodyHex},
		{"Three parts", envelope + ":00"},
		{"IV not hex", "zz" + ivHex[2:] + ":" + bodyHex},
		{"Short IV", ivHex[:30] + ":" + bodyHex},
		{"Body not hex", ivHex + ":" + "zz" + bodyHex[2:]},
		{"Truncated body", ivHex + ":" + bodyHex[:len(bodyHex)-2]},
		{"Missing tag", ivHex + ":" + bodyHex[:32]},
		{"Tampered IV", flip(ivHex, 0) + ":" + bodyHex},
		{"Tampered ciphertext", ivHex + ":" + flip(bodyHex, 0)},
		{"Tampered tag", ivHex + ":" + flip(bodyHex, len(bodyHex)-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plaintext, err := c.DecryptField(tt.envelope)
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailure)
			assert.Empty(t, plaintext)
		})
	}

	t.Run("Wrong key", func(t *testing.T) {
		other := newTestCipher(t, "another passphrase")

		plaintext, err := other.DecryptField(envelope)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailure)
		assert.Empty(t, plaintext)
	})
}

func TestPiiCipher_LookupKey(t *testing.T) {
	c := newTestCipher(t, "passphrase")

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, c.LookupKey("0901234567"), c.LookupKey("0901234567"))
	})

	t.Run("Injective on samples", func(t *testing.T) {
		samples := []string{"0901234567", "0901234568", "+84901234567", "", "1", "0901234567 "}
		seen := make(map[string]string, len(samples))
		for _, s := range samples {
			key := c.LookupKey(s)
			prev, dup := seen[key]
			assert.False(t, dup, "collision between %q and %q", prev, s)
			seen[key] = s
		}
	})

	t.Run("Hex digest independent of ciphertext", func(t *testing.T) {
		key := c.LookupKey("0901234567")
		raw, err := hex.DecodeString(key)
		require.NoError(t, err)
		assert.Len(t, raw, 32)

		envelope, err := c.EncryptField("0901234567")
		require.NoError(t, err)
		assert.NotContains(t, envelope, key)
	})

	t.Run("Depends on passphrase", func(t *testing.T) {
		other := newTestCipher(t, "another passphrase")
		assert.NotEqual(t, c.LookupKey("0901234567"), other.LookupKey("0901234567"))
	})
}

func TestPiiCipher_Close(t *testing.T) {
	c := newTestCipher(t, "passphrase")
	envelope, err := c.EncryptField("0901234567")
	require.NoError(t, err)
	for _, key := range [][]byte{c.encKey, c.macKey, c.lookupKey} {
		assert.NotEqual(t, make([]byte, 32), key)
	}

	c.Close()

	for _, key := range [][]byte{c.encKey, c.macKey, c.lookupKey} {
		assert.Equal(t, make([]byte, 32), key)
	}
	_, err = c.DecryptField(envelope)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailure)
}

func TestPKCS7(t *testing.T) {
	padded := pkcs7Pad([]byte("abc"), 16)
	assert.Len(t, padded, 16)

	unpadded, ok := pkcs7Unpad(padded, 16)
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), unpadded)

	full := pkcs7Pad(make([]byte, 16), 16)
	assert.Len(t, full, 32)

	_, ok = pkcs7Unpad(append(make([]byte, 15), 0), 16)
	assert.False(t, ok)
	_, ok = pkcs7Unpad(append(make([]byte, 15), 17), 16)
	assert.False(t, ok)
	_, ok = pkcs7Unpad(append(make([]byte, 14), 1, 2), 16)
	assert.False(t, ok)
}
