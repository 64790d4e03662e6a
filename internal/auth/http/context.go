// Package http provides the gin handlers and middleware for login, bearer
// authorization and account management.
package http

import (
	"context"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
)

type claimsKey struct{}

// WithClaims stores verified claims in the context.
func WithClaims(ctx context.Context, claims *authDomain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaims returns the claims stored by AuthenticationMiddleware.
func GetClaims(ctx context.Context) (*authDomain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*authDomain.Claims)
	return claims, ok && claims != nil
}
