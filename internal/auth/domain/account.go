package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account is an admin-panel credential.
type Account struct {
	ID           uuid.UUID // Unique identifier (UUIDv7)
	Email        string    // Lower-cased, unique
	PasswordHash string    //nolint:gosec // envelope produced by the password hasher, never plaintext
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountSummary is the redacted view of an account returned to callers.
type AccountSummary struct {
	ID       uuid.UUID
	Email    string
	Role     Role
	IsActive bool
}

// Summary returns the account without its password hash.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:       a.ID,
		Email:    a.Email,
		Role:     a.Role,
		IsActive: a.IsActive,
	}
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UpdateAccountInput carries the optional fields of an account update.
// Nil fields are left unchanged.
type UpdateAccountInput struct {
	Email    *string
	Role     *Role
	IsActive *bool
}

// IsEmpty reports whether no field is set.
func (in UpdateAccountInput) IsEmpty() bool {
	return in.Email == nil && in.Role == nil && in.IsActive == nil
}
