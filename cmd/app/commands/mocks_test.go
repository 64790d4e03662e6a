package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
)

type mockAccountUseCase struct {
	mock.Mock
}

func (m *mockAccountUseCase) Create(
	ctx context.Context,
	email, password string,
	role authDomain.Role,
) (*authDomain.Account, error) {
	args := m.Called(ctx, email, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Account), args.Error(1)
}

func (m *mockAccountUseCase) Get(ctx context.Context, id uuid.UUID) (*authDomain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Account), args.Error(1)
}

func (m *mockAccountUseCase) List(ctx context.Context, offset, limit int) ([]*authDomain.Account, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.Account), args.Error(1)
}

func (m *mockAccountUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input authDomain.UpdateAccountInput,
) (*authDomain.Account, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Account), args.Error(1)
}

func (m *mockAccountUseCase) ResetPassword(ctx context.Context, id uuid.UUID, password string) error {
	args := m.Called(ctx, id, password)
	return args.Error(0)
}
