package http

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	registrationDomain "github.com/allisson/siteapi/internal/registration/domain"
)

type mockRegistrationUseCase struct {
	mock.Mock
}

func (m *mockRegistrationUseCase) Submit(
	ctx context.Context,
	input registrationDomain.SubmitInput,
) (*registrationDomain.Registration, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registrationDomain.Registration), args.Error(1)
}

func (m *mockRegistrationUseCase) Get(
	ctx context.Context,
	id uuid.UUID,
) (*registrationDomain.RegistrationView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registrationDomain.RegistrationView), args.Error(1)
}

func (m *mockRegistrationUseCase) List(
	ctx context.Context,
	filter registrationDomain.ListFilter,
) ([]*registrationDomain.RegistrationView, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registrationDomain.RegistrationView), args.Error(1)
}

func (m *mockRegistrationUseCase) Count(ctx context.Context, status *registrationDomain.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRegistrationUseCase) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status registrationDomain.Status,
) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
