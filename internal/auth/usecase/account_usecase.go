package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
	authService "github.com/allisson/siteapi/internal/auth/service"
	apperrors "github.com/allisson/siteapi/internal/errors"
)

type accountUseCase struct {
	accountRepo    AccountRepository
	passwordHasher authService.PasswordHasher
}

// NewAccountUseCase creates an AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, passwordHasher authService.PasswordHasher) AccountUseCase {
	return &accountUseCase{
		accountRepo:    accountRepo,
		passwordHasher: passwordHasher,
	}
}

func (a *accountUseCase) Create(
	ctx context.Context,
	email, password string,
	role authDomain.Role,
) (*authDomain.Account, error) {
	if !role.IsValid() {
		return nil, authDomain.ErrInvalidRole
	}
	if password == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "password is required")
	}

	email = authDomain.NormalizeEmail(email)
	if err := a.ensureEmailAvailable(ctx, email); err != nil {
		return nil, err
	}

	passwordHash, err := a.passwordHasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &authDomain.Account{
		ID:           uuid.Must(uuid.NewV7()),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := a.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

func (a *accountUseCase) Get(ctx context.Context, id uuid.UUID) (*authDomain.Account, error) {
	return a.accountRepo.FindByID(ctx, id)
}

func (a *accountUseCase) List(ctx context.Context, offset, limit int) ([]*authDomain.Account, error) {
	return a.accountRepo.List(ctx, offset, limit)
}

// Update applies the non-nil fields of input.
func (a *accountUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input authDomain.UpdateAccountInput,
) (*authDomain.Account, error) {
	if input.IsEmpty() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "no fields to update")
	}

	account, err := a.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := authDomain.NormalizeEmail(*input.Email)
		if email != account.Email {
			if err := a.ensureEmailAvailable(ctx, email); err != nil {
				return nil, err
			}
			account.Email = email
		}
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, authDomain.ErrInvalidRole
		}
		account.Role = *input.Role
	}
	if input.IsActive != nil {
		account.IsActive = *input.IsActive
	}
	account.UpdatedAt = time.Now().UTC()

	if err := a.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// ResetPassword replaces the password hash. Outstanding tokens stay valid
// until they expire or the account is deactivated.
func (a *accountUseCase) ResetPassword(ctx context.Context, id uuid.UUID, password string) error {
	if password == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "password is required")
	}

	account, err := a.accountRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	passwordHash, err := a.passwordHasher.Hash(ctx, password)
	if err != nil {
		return err
	}

	account.PasswordHash = passwordHash
	account.UpdatedAt = time.Now().UTC()

	return a.accountRepo.Update(ctx, account)
}

func (a *accountUseCase) ensureEmailAvailable(ctx context.Context, email string) error {
	_, err := a.accountRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return authDomain.ErrAccountAlreadyExists
	case errors.Is(err, authDomain.ErrAccountNotFound):
		return nil
	default:
		return err
	}
}
