package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/allisson/siteapi/internal/auth/domain"
	apperrors "github.com/allisson/siteapi/internal/errors"
)

// tokenClaims is the wire payload: sub, email, role, iat and exp in Unix seconds.
type tokenClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// tokenCodec encodes compact JWS tokens signed with an HMAC strategy.
type tokenCodec struct {
	mac    MACStrategy
	parser *jwt.Parser
	now    func() time.Time
}

// TokenCodecOption configures a token codec.
type TokenCodecOption func(*tokenCodec)

// WithClock replaces time.Now. Used by tests to move past expiry.
func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *tokenCodec) {
		c.now = now
	}
}

// NewTokenCodec creates a TokenCodec signing with mac.
func NewTokenCodec(mac MACStrategy, opts ...TokenCodecOption) TokenCodec {
	c := &tokenCodec{
		mac: mac,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	// exp stays valid through its own second.
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{mac.Method().Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Second),
		jwt.WithTimeFunc(c.now),
	)
	return c
}

func (c *tokenCodec) Issue(claims domain.Claims, ttl time.Duration) (string, *domain.Claims, error) {
	if ttl <= 0 {
		return "", nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token ttl must be positive")
	}

	now := c.now()
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(ttl).Unix()

	token, err := jwt.NewWithClaims(c.mac.Method(), tokenClaims{
		Email: claims.Email,
		Role:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0)),
		},
	}).SignedString(c.mac.Key())
	if err != nil {
		return "", nil, apperrors.Wrap(err, "failed to sign token")
	}

	return token, &claims, nil
}

func (c *tokenCodec) Verify(token string) (*domain.Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, domain.ErrMalformedToken
	}

	var wire tokenClaims
	parsed, err := c.parser.ParseWithClaims(token, &wire, c.verificationKey)
	if err != nil {
		return nil, verifyError(parsed, err)
	}

	claims := &domain.Claims{
		Subject:   wire.Subject,
		Email:     wire.Email,
		Role:      wire.Role,
		ExpiresAt: wire.ExpiresAt.Unix(),
	}
	if wire.IssuedAt != nil {
		claims.IssuedAt = wire.IssuedAt.Unix()
	}
	return claims, nil
}

func (c *tokenCodec) verificationKey(*jwt.Token) (any, error) {
	return c.mac.Key(), nil
}

// verifyError maps parser failures to token errors. The signing method is
// resolved only after header and payload decode, so a malformed error on a
// token with a method comes from a non-canonical signature segment.
func verifyError(parsed *jwt.Token, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrSignatureMismatch
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenMalformed) && parsed != nil && parsed.Method != nil:
		return domain.ErrSignatureMismatch
	default:
		return domain.ErrMalformedToken
	}
}
