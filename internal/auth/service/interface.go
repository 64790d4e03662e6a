// Package service provides the cryptographic building blocks of authentication:
// password hashing and bearer token encoding.
package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/allisson/siteapi/internal/auth/domain"
)

// PasswordHasher salts and hashes credential secrets and verifies them later.
type PasswordHasher interface {
	// Hash returns a fresh envelope for secret. Two calls never return the same envelope.
	Hash(ctx context.Context, secret string) (string, error)

	// Verify reports whether secret matches envelope. A malformed envelope is
	// reported as a mismatch, never as an error.
	Verify(ctx context.Context, secret, envelope string) bool
}

// MACStrategy pairs a JWT HMAC signing method with its derived key.
type MACStrategy interface {
	// Method signs and verifies tokens. Its Alg is the token header "alg" field.
	Method() jwt.SigningMethod

	// Key is the MAC key handed to Method.
	Key() []byte
}

// TokenCodec issues and verifies stateless bearer tokens.
type TokenCodec interface {
	// Issue stamps iat and exp onto claims and returns the encoded token
	// together with the stamped claims.
	Issue(claims domain.Claims, ttl time.Duration) (string, *domain.Claims, error)

	// Verify checks the token signature and expiry and returns its claims.
	Verify(token string) (*domain.Claims, error)
}
