package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"sync"
	"time"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
	authService "github.com/allisson/siteapi/internal/auth/service"
)

type authUseCase struct {
	accountRepo    AccountRepository
	passwordHasher authService.PasswordHasher
	tokenCodec     authService.TokenCodec
	tokenTTL       time.Duration
	logger         *slog.Logger

	decoyMu       sync.Mutex
	decoyEnvelope string
}

// NewAuthUseCase creates an AuthUseCase issuing tokens valid for tokenTTL.
func NewAuthUseCase(
	accountRepo AccountRepository,
	passwordHasher authService.PasswordHasher,
	tokenCodec authService.TokenCodec,
	tokenTTL time.Duration,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		accountRepo:    accountRepo,
		passwordHasher: passwordHasher,
		tokenCodec:     tokenCodec,
		tokenTTL:       tokenTTL,
		logger:         logger,
	}
}

// Login looks the account up by email, checks the active flag, verifies the
// password and issues a token.
//
// A password verification always runs, against a decoy envelope when the email
// is unknown, so response time does not reveal which check failed.
func (a *authUseCase) Login(ctx context.Context, email, password string) (*authDomain.Session, error) {
	account, err := a.accountRepo.FindByEmail(ctx, authDomain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, authDomain.ErrAccountNotFound) {
			a.passwordHasher.Verify(ctx, password, a.decoy(ctx))
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	passwordOK := a.passwordHasher.Verify(ctx, password, account.PasswordHash)

	if !account.IsActive {
		return nil, authDomain.ErrAccountDisabled
	}
	if !passwordOK {
		return nil, authDomain.ErrInvalidCredentials
	}

	token, _, err := a.tokenCodec.Issue(authDomain.Claims{
		Subject: account.ID.String(),
		Email:   account.Email,
		Role:    account.Role,
	}, a.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &authDomain.Session{
		Token:     token,
		TokenType: authDomain.TokenType,
		ExpiresIn: a.tokenTTL,
		Account:   account.Summary(),
	}, nil
}

// Authorize verifies the token, then re-reads the account so a deactivation
// takes effect before the token expires.
func (a *authUseCase) Authorize(ctx context.Context, token string) (*authDomain.Claims, error) {
	claims, err := a.tokenCodec.Verify(token)
	if err != nil {
		return nil, err
	}

	accountID, err := claims.SubjectID()
	if err != nil {
		return nil, err
	}

	account, err := a.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, authDomain.ErrAccountNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !account.IsActive {
		return nil, authDomain.ErrAccountDisabled
	}

	// Role and email may have changed since issue; the directory wins.
	claims.Role = account.Role
	claims.Email = account.Email

	return claims, nil
}

// decoy returns an envelope of a random secret, computed on first successful
// use. The hash ignores request cancellation and a failure is retried on the
// next call.
func (a *authUseCase) decoy(ctx context.Context) string {
	a.decoyMu.Lock()
	defer a.decoyMu.Unlock()

	if a.decoyEnvelope == "" {
		envelope, err := a.passwordHasher.Hash(context.WithoutCancel(ctx), rand.Text())
		if err != nil {
			a.logger.Warn("failed to compute decoy password envelope", slog.Any("error", err))
			return ""
		}
		a.decoyEnvelope = envelope
	}
	return a.decoyEnvelope
}
