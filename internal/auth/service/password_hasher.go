package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/sync/semaphore"

	apperrors "github.com/allisson/siteapi/internal/errors"
)

// Supported password hashing algorithms.
const (
	AlgorithmScrypt   = "scrypt"
	AlgorithmArgon2id = "argon2id"
)

const (
	scryptN        = 16384
	scryptR        = 8
	scryptP        = 1
	saltSize       = 16
	derivedKeySize = 64

	envelopeSeparator = ":"
	argon2idPrefix    = "$argon2id$"
)

// passwordHasher produces "salt_hex:derived_hex" scrypt envelopes, or argon2id
// PHC strings when that algorithm is selected. Both shapes verify regardless
// of the selected algorithm so a configuration switch does not lock anyone out.
type passwordHasher struct {
	algorithm string
	argon     *pwdhash.PasswordHasher
	sem       *semaphore.Weighted
}

// NewPasswordHasher creates a PasswordHasher for algorithm. At most
// concurrency derivations run at the same time; callers beyond that wait.
func NewPasswordHasher(algorithm string, concurrency int) (PasswordHasher, error) {
	switch algorithm {
	case AlgorithmScrypt, AlgorithmArgon2id:
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unsupported password hash algorithm %q", algorithm)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	argon, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		return nil, fmt.Errorf("failed to create argon2id hasher: %w", err)
	}

	return &passwordHasher{
		algorithm: algorithm,
		argon:     argon,
		sem:       semaphore.NewWeighted(int64(concurrency)),
	}, nil
}

// Hash derives a new envelope for secret.
func (h *passwordHasher) Hash(ctx context.Context, secret string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", apperrors.Wrap(err, "failed to acquire hashing slot")
	}
	defer h.sem.Release(1)

	if h.algorithm == AlgorithmArgon2id {
		encoded, err := h.argon.Hash([]byte(secret))
		if err != nil {
			return "", apperrors.Wrap(err, "failed to hash password")
		}
		return encoded, nil
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", apperrors.Wrap(err, "failed to generate salt")
	}

	derived, err := scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, derivedKeySize)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}

	return hex.EncodeToString(salt) + envelopeSeparator + hex.EncodeToString(derived), nil
}

// Verify recomputes the derivation and compares in constant time.
func (h *passwordHasher) Verify(ctx context.Context, secret, envelope string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	if strings.HasPrefix(envelope, argon2idPrefix) {
		ok, err := h.argon.Verify([]byte(secret), envelope)
		return err == nil && ok
	}

	salt, stored, ok := parseEnvelope(envelope)
	if !ok {
		return false
	}

	derived, err := scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, len(stored))
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(derived, stored) == 1
}

// parseEnvelope splits "salt_hex:derived_hex" into its two non-empty components.
func parseEnvelope(envelope string) (salt, derived []byte, ok bool) {
	parts := strings.Split(envelope, envelopeSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil, false
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, nil, false
	}
	derived, err = hex.DecodeString(parts[1])
	if err != nil || len(derived) != derivedKeySize {
		return nil, nil, false
	}

	return salt, derived, true
}
