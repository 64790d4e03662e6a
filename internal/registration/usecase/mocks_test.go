package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/siteapi/internal/crypto/domain"
	registrationDomain "github.com/allisson/siteapi/internal/registration/domain"
)

type mockRegistrationRepository struct {
	mock.Mock
}

func (m *mockRegistrationRepository) Create(ctx context.Context, registration *registrationDomain.Registration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *mockRegistrationRepository) Get(ctx context.Context, id uuid.UUID) (*registrationDomain.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registrationDomain.Registration), args.Error(1)
}

func (m *mockRegistrationRepository) List(
	ctx context.Context,
	filter registrationDomain.ListFilter,
) ([]*registrationDomain.Registration, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registrationDomain.Registration), args.Error(1)
}

func (m *mockRegistrationRepository) Count(ctx context.Context, status *registrationDomain.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRegistrationRepository) FindRecent(
	ctx context.Context,
	since time.Time,
) ([]*registrationDomain.Registration, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registrationDomain.Registration), args.Error(1)
}

func (m *mockRegistrationRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to registrationDomain.Status,
	updatedAt time.Time,
) (bool, error) {
	args := m.Called(ctx, id, from, to, updatedAt)
	return args.Bool(0), args.Error(1)
}

func (m *mockRegistrationRepository) ClaimGuard(
	ctx context.Context,
	lookupKey string,
	registrationID uuid.UUID,
	now, expiresAt time.Time,
) (bool, error) {
	args := m.Called(ctx, lookupKey, registrationID, now, expiresAt)
	return args.Bool(0), args.Error(1)
}

// passthroughTxManager runs fn directly and counts transactions.
type passthroughTxManager struct {
	calls int
}

func (p *passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

// fakeCipher stores plaintext behind an "enc:" prefix.
type fakeCipher struct {
	encryptErr error
}

func (f fakeCipher) EncryptField(plaintext string) (string, error) {
	if f.encryptErr != nil {
		return "", f.encryptErr
	}
	return "enc:" + plaintext, nil
}

func (fakeCipher) DecryptField(envelope string) (string, error) {
	plaintext, ok := strings.CutPrefix(envelope, "enc:")
	if !ok {
		return "", cryptoDomain.ErrDecryptionFailure
	}
	return plaintext, nil
}

func (fakeCipher) LookupKey(plaintext string) string {
	return "lk-" + plaintext
}

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
