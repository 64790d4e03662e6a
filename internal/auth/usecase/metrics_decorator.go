package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
	"github.com/allisson/siteapi/internal/metrics"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{next: useCase, metrics: m}
}

func (a *authUseCaseWithMetrics) Login(ctx context.Context, email, password string) (*authDomain.Session, error) {
	start := time.Now()
	session, err := a.next.Login(ctx, email, password)
	metrics.RecordOutcome(ctx, a.metrics, "auth", "login", start, err)
	return session, err
}

func (a *authUseCaseWithMetrics) Authorize(ctx context.Context, token string) (*authDomain.Claims, error) {
	start := time.Now()
	claims, err := a.next.Authorize(ctx, token)
	metrics.RecordOutcome(ctx, a.metrics, "auth", "authorize", start, err)
	return claims, err
}

// accountUseCaseWithMetrics decorates AccountUseCase with metrics instrumentation.
type accountUseCaseWithMetrics struct {
	next    AccountUseCase
	metrics metrics.BusinessMetrics
}

// NewAccountUseCaseWithMetrics wraps an AccountUseCase with metrics recording.
func NewAccountUseCaseWithMetrics(useCase AccountUseCase, m metrics.BusinessMetrics) AccountUseCase {
	return &accountUseCaseWithMetrics{next: useCase, metrics: m}
}

func (a *accountUseCaseWithMetrics) Create(
	ctx context.Context,
	email, password string,
	role authDomain.Role,
) (*authDomain.Account, error) {
	start := time.Now()
	account, err := a.next.Create(ctx, email, password, role)
	metrics.RecordOutcome(ctx, a.metrics, "auth", "account_create", start, err)
	return account, err
}

func (a *accountUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*authDomain.Account, error) {
	start := time.Now()
	account, err := a.next.Get(ctx, id)
	metrics.RecordOutcome(ctx, a.metrics, "auth", "account_get", start, err)
	return account, err
}

func (a *accountUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*authDomain.Account, error) {
	start := time.Now()
	accounts, err := a.next.List(ctx, offset, limit)
	metrics.RecordOutcome(ctx, a.metrics, "auth", "account_list", start, err)
	return accounts, err
}

func (a *accountUseCaseWithMetrics) Update(
	ctx context.Context,
	id uuid.UUID,
	input authDomain.UpdateAccountInput,
) (*authDomain.Account, error) {
	start := time.Now()
	account, err := a.next.Update(ctx, id, input)
	metrics.RecordOutcome(ctx, a.metrics, "auth", "account_update", start, err)
	return account, err
}

func (a *accountUseCaseWithMetrics) ResetPassword(ctx context.Context, id uuid.UUID, password string) error {
	start := time.Now()
	err := a.next.ResetPassword(ctx, id, password)
	metrics.RecordOutcome(ctx, a.metrics, "auth", "account_reset_password", start, err)
	return err
}
