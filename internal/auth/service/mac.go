package service

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	apperrors "github.com/allisson/siteapi/internal/errors"
)

// Supported token MAC algorithms.
const (
	AlgorithmHS256 = "HS256"
	AlgorithmHS512 = "HS512"
)

const tokenSigningInfo = "token-signing-v1"

type hmacStrategy struct {
	method *jwt.SigningMethodHMAC
	key    []byte
}

// NewMACStrategy returns the HMAC strategy for algorithm keyed from secret.
// The HMAC key is expanded from the secret with HKDF so the raw configured
// value is never used directly as MAC key.
func NewMACStrategy(algorithm string, secret []byte) (MACStrategy, error) {
	if len(secret) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "signing secret is empty")
	}

	var (
		method  *jwt.SigningMethodHMAC
		newHash func() hash.Hash
	)
	switch algorithm {
	case AlgorithmHS256:
		method, newHash = jwt.SigningMethodHS256, sha256.New
	case AlgorithmHS512:
		method, newHash = jwt.SigningMethodHS512, sha512.New
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unsupported token algorithm %q", algorithm)
	}

	key, err := deriveSigningKey(newHash, secret)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive signing key")
	}

	return &hmacStrategy{method: method, key: key}, nil
}

// deriveSigningKey expands secret into a key as long as the hash output.
func deriveSigningKey(newHash func() hash.Hash, secret []byte) ([]byte, error) {
	key := make([]byte, newHash().Size())
	if _, err := io.ReadFull(hkdf.New(newHash, secret, nil, []byte(tokenSigningInfo)), key); err != nil {
		return nil, err
	}
	return key, nil
}

func (s *hmacStrategy) Method() jwt.SigningMethod {
	return s.method
}

func (s *hmacStrategy) Key() []byte {
	return s.key
}
