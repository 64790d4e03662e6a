package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	registrationDomain "github.com/allisson/siteapi/internal/registration/domain"
)

type stubRegistrationUseCase struct {
	err error
}

func (s *stubRegistrationUseCase) Submit(
	context.Context,
	registrationDomain.SubmitInput,
) (*registrationDomain.Registration, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &registrationDomain.Registration{Status: registrationDomain.StatusPending}, nil
}

func (s *stubRegistrationUseCase) Get(context.Context, uuid.UUID) (*registrationDomain.RegistrationView, error) {
	return nil, s.err
}

func (s *stubRegistrationUseCase) List(
	context.Context,
	registrationDomain.ListFilter,
) ([]*registrationDomain.RegistrationView, error) {
	return nil, s.err
}

func (s *stubRegistrationUseCase) Count(context.Context, *registrationDomain.Status) (int64, error) {
	return 3, s.err
}

func (s *stubRegistrationUseCase) UpdateStatus(context.Context, uuid.UUID, registrationDomain.Status) error {
	return s.err
}

func expectOutcome(ctx context.Context, m *mockBusinessMetrics, operation, status string) {
	m.On("RecordOperation", ctx, "registration", operation, status).Once()
	m.On("RecordDuration", ctx, "registration", operation, mock.AnythingOfType("time.Duration"), status).Once()
}

func TestRegistrationUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful operations", func(t *testing.T) {
		m := &mockBusinessMetrics{}
		for _, op := range []string{"submit", "get", "list", "count", "update_status"} {
			expectOutcome(ctx, m, op, "success")
		}
		uc := NewRegistrationUseCaseWithMetrics(&stubRegistrationUseCase{}, m)

		_, err := uc.Submit(ctx, registrationDomain.SubmitInput{})
		assert.NoError(t, err)
		_, _ = uc.Get(ctx, uuid.Nil)
		_, _ = uc.List(ctx, registrationDomain.ListFilter{})
		count, _ := uc.Count(ctx, nil)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, uc.UpdateStatus(ctx, uuid.Nil, registrationDomain.StatusContacted))

		m.AssertExpectations(t)
	})

	t.Run("Duplicate submission records error", func(t *testing.T) {
		m := &mockBusinessMetrics{}
		expectOutcome(ctx, m, "submit", "error")
		uc := NewRegistrationUseCaseWithMetrics(
			&stubRegistrationUseCase{err: registrationDomain.ErrDuplicateSubmission}, m)

		_, err := uc.Submit(ctx, registrationDomain.SubmitInput{})

		assert.ErrorIs(t, err, registrationDomain.ErrDuplicateSubmission)
		m.AssertExpectations(t)
	})
}
