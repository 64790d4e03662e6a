package dto

import (
	"time"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
)

// AccountSummaryResponse is the redacted account view embedded in login and me responses.
type AccountSummaryResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// MapSummaryToResponse converts an account summary to its API shape.
func MapSummaryToResponse(summary authDomain.AccountSummary) AccountSummaryResponse {
	return AccountSummaryResponse{
		ID:       summary.ID.String(),
		Email:    summary.Email,
		Role:     string(summary.Role),
		IsActive: summary.IsActive,
	}
}

// LoginResponse contains the issued bearer token.
type LoginResponse struct {
	Token            string                 `json:"token"` //nolint:gosec // returned to the caller once
	TokenType        string                 `json:"token_type"`
	ExpiresInSeconds int64                  `json:"expires_in_seconds"`
	Account          AccountSummaryResponse `json:"account"`
}

// MapSessionToResponse converts a login session to its API shape.
func MapSessionToResponse(session *authDomain.Session) LoginResponse {
	return LoginResponse{
		Token:            session.Token,
		TokenType:        session.TokenType,
		ExpiresInSeconds: int64(session.ExpiresIn / time.Second),
		Account:          MapSummaryToResponse(session.Account),
	}
}

// MeResponse describes the caller behind a bearer token.
type MeResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapClaimsToMeResponse converts verified claims to the me response.
func MapClaimsToMeResponse(claims *authDomain.Claims) MeResponse {
	return MeResponse{
		ID:        claims.Subject,
		Email:     claims.Email,
		Role:      string(claims.Role),
		IssuedAt:  time.Unix(claims.IssuedAt, 0).UTC(),
		ExpiresAt: claims.ExpiresAtTime(),
	}
}

// AccountResponse represents an account in API responses (excludes the password hash).
type AccountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapAccountToResponse converts a domain account to an API response.
func MapAccountToResponse(account *authDomain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID.String(),
		Email:     account.Email,
		Role:      string(account.Role),
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Data []AccountResponse `json:"data"`
}

// MapAccountsToListResponse converts domain accounts to a list response.
func MapAccountsToListResponse(accounts []*authDomain.Account) ListAccountsResponse {
	data := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		data = append(data, MapAccountToResponse(account))
	}
	return ListAccountsResponse{Data: data}
}
