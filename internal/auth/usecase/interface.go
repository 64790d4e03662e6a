// Package usecase implements login, token authorization and account management.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
)

// AccountRepository is the account directory.
// Implementations must honor the transaction carried by ctx.
type AccountRepository interface {
	// Create stores a new account. Returns ErrAccountAlreadyExists on a duplicate email.
	Create(ctx context.Context, account *authDomain.Account) error

	// Update persists email, password hash, role, active flag and updated_at.
	Update(ctx context.Context, account *authDomain.Account) error

	// FindByID returns ErrAccountNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*authDomain.Account, error)

	// FindByEmail returns ErrAccountNotFound when absent. The email must be normalized.
	FindByEmail(ctx context.Context, email string) (*authDomain.Account, error)

	// List returns accounts ordered by creation time, newest first.
	List(ctx context.Context, offset, limit int) ([]*authDomain.Account, error)
}

// AuthUseCase logs accounts in and authorizes bearer tokens.
type AuthUseCase interface {
	// Login verifies email and password and issues a token.
	// Unknown email and wrong password both yield ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*authDomain.Session, error)

	// Authorize verifies token and checks the subject account is still active.
	Authorize(ctx context.Context, token string) (*authDomain.Claims, error)
}

// AccountUseCase manages admin accounts.
type AccountUseCase interface {
	Create(ctx context.Context, email, password string, role authDomain.Role) (*authDomain.Account, error)
	Get(ctx context.Context, id uuid.UUID) (*authDomain.Account, error)
	List(ctx context.Context, offset, limit int) ([]*authDomain.Account, error)
	Update(ctx context.Context, id uuid.UUID, input authDomain.UpdateAccountInput) (*authDomain.Account, error)
	ResetPassword(ctx context.Context, id uuid.UUID, password string) error
}
