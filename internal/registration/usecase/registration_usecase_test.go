package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/siteapi/internal/cache"
	cryptoDomain "github.com/allisson/siteapi/internal/crypto/domain"
	apperrors "github.com/allisson/siteapi/internal/errors"
	registrationDomain "github.com/allisson/siteapi/internal/registration/domain"
	registrationService "github.com/allisson/siteapi/internal/registration/service"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo      *mockRegistrationRepository
	txManager *passthroughTxManager
	cache     *cache.MemoryCache
	useCase   *registrationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := &mockRegistrationRepository{}
	txManager := &passthroughTxManager{}
	c := cache.NewMemoryCache(0)
	t.Cleanup(c.Close)

	guard := registrationService.NewDuplicateGuard(c, repo, fakeCipher{}, 24*time.Hour, discardLogger(),
		registrationService.WithGuardClock(func() time.Time { return testNow }))

	uc := NewRegistrationUseCase(txManager, repo, guard, fakeCipher{}, discardLogger()).(*registrationUseCase)
	uc.now = func() time.Time { return testNow }

	return &fixture{repo: repo, txManager: txManager, cache: c, useCase: uc}
}

func storedRegistration(status registrationDomain.Status) *registrationDomain.Registration {
	return &registrationDomain.Registration{
		ID:             uuid.Must(uuid.NewV7()),
		FullName:       "Nguyen Van A",
		PhoneEncrypted: "enc:0901234567",
		PhoneLookup:    "lk-0901234567",
		Status:         status,
		CreatedAt:      testNow.Add(-time.Hour),
		UpdatedAt:      testNow.Add(-time.Hour),
	}
}

func TestRegistrationUseCase_Submit(t *testing.T) {
	ctx := context.Background()
	input := registrationDomain.SubmitInput{
		FullName:      "  Nguyen Van A ",
		Phone:         "090 123-4567",
		Email:         "a@example.com",
		BusinessModel: "retail",
		Source:        "landing",
	}

	t.Run("Accepted", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("FindRecent", mock.Anything, testNow.Add(-24*time.Hour)).
			Return([]*registrationDomain.Registration{}, nil).Once()
		f.repo.On("ClaimGuard", mock.Anything, "lk-0901234567", mock.AnythingOfType("uuid.UUID"), testNow, testNow.Add(24*time.Hour)).
			Return(true, nil).Once()
		f.repo.On("Create", mock.Anything, mock.MatchedBy(func(r *registrationDomain.Registration) bool {
			return r.PhoneEncrypted == "enc:0901234567" &&
				r.PhoneLookup == "lk-0901234567" &&
				r.FullName == "Nguyen Van A" &&
				r.Status == registrationDomain.StatusPending
		})).Return(nil).Once()

		registration, err := f.useCase.Submit(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, registrationDomain.StatusPending, registration.Status)
		assert.Equal(t, testNow, registration.CreatedAt)
		assert.Equal(t, 1, f.txManager.calls)
		f.repo.AssertExpectations(t)
	})

	t.Run("Second submission within window is a duplicate", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("FindRecent", mock.Anything, mock.Anything).Return([]*registrationDomain.Registration{}, nil).Once()
		f.repo.On("ClaimGuard", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(true, nil).Once()
		f.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := f.useCase.Submit(ctx, input)
		require.NoError(t, err)

		_, err = f.useCase.Submit(ctx, registrationDomain.SubmitInput{FullName: "B", Phone: "0901234567"})
		assert.ErrorIs(t, err, registrationDomain.ErrDuplicateSubmission)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		f.repo.AssertExpectations(t)
	})

	t.Run("Lost guard claim skips insert", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("FindRecent", mock.Anything, mock.Anything).Return([]*registrationDomain.Registration{}, nil).Once()
		f.repo.On("ClaimGuard", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(false, nil).Once()

		_, err := f.useCase.Submit(ctx, input)

		assert.ErrorIs(t, err, registrationDomain.ErrDuplicateSubmission)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Insert failure propagates", func(t *testing.T) {
		f := newFixture(t)
		boom := errors.New("insert failed")
		f.repo.On("FindRecent", mock.Anything, mock.Anything).Return([]*registrationDomain.Registration{}, nil).Once()
		f.repo.On("ClaimGuard", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(true, nil).Once()
		f.repo.On("Create", mock.Anything, mock.Anything).Return(boom).Once()

		_, err := f.useCase.Submit(ctx, input)

		assert.ErrorIs(t, err, boom)
	})

	t.Run("Blank phone", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.useCase.Submit(ctx, registrationDomain.SubmitInput{FullName: "A", Phone: " - "})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		f.repo.AssertNotCalled(t, "FindRecent", mock.Anything, mock.Anything)
	})

	t.Run("Encryption failure", func(t *testing.T) {
		f := newFixture(t)
		f.useCase.cipher = fakeCipher{encryptErr: errors.New("no entropy")}

		_, err := f.useCase.Submit(ctx, input)

		assert.ErrorContains(t, err, "failed to encrypt phone")
	})
}

func TestRegistrationUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Decrypts phone", func(t *testing.T) {
		f := newFixture(t)
		stored := storedRegistration(registrationDomain.StatusPending)
		f.repo.On("Get", ctx, stored.ID).Return(stored, nil).Once()

		view, err := f.useCase.Get(ctx, stored.ID)

		require.NoError(t, err)
		assert.Equal(t, "0901234567", view.Phone)
		assert.False(t, view.PhoneUnavailable)
		assert.Equal(t, stored.ID, view.ID)
	})

	t.Run("Decryption failure is fatal", func(t *testing.T) {
		f := newFixture(t)
		stored := storedRegistration(registrationDomain.StatusPending)
		stored.PhoneEncrypted = "corrupt"
		f.repo.On("Get", ctx, stored.ID).Return(stored, nil).Once()

		view, err := f.useCase.Get(ctx, stored.ID)

		assert.Nil(t, view)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailure)
	})

	t.Run("Not found", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.Must(uuid.NewV7())
		f.repo.On("Get", ctx, id).Return(nil, registrationDomain.ErrRegistrationNotFound).Once()

		_, err := f.useCase.Get(ctx, id)

		assert.ErrorIs(t, err, registrationDomain.ErrRegistrationNotFound)
	})
}

func TestRegistrationUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Withholds undecryptable phones", func(t *testing.T) {
		f := newFixture(t)
		good := storedRegistration(registrationDomain.StatusPending)
		bad := storedRegistration(registrationDomain.StatusContacted)
		bad.PhoneEncrypted = "corrupt"
		filter := registrationDomain.ListFilter{Offset: 0, Limit: 50}
		f.repo.On("List", ctx, filter).Return([]*registrationDomain.Registration{good, bad}, nil).Once()

		views, err := f.useCase.List(ctx, filter)

		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "0901234567", views[0].Phone)
		assert.False(t, views[0].PhoneUnavailable)
		assert.Empty(t, views[1].Phone)
		assert.True(t, views[1].PhoneUnavailable)
	})

	t.Run("Invalid status filter", func(t *testing.T) {
		f := newFixture(t)
		status := registrationDomain.Status("archived")

		_, err := f.useCase.List(ctx, registrationDomain.ListFilter{Status: &status, Limit: 10})

		assert.ErrorIs(t, err, registrationDomain.ErrInvalidStatus)
	})
}

func TestRegistrationUseCase_Count(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	status := registrationDomain.StatusPending
	f.repo.On("Count", ctx, &status).Return(int64(7), nil).Once()

	count, err := f.useCase.Count(ctx, &status)

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestRegistrationUseCase_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Allowed transition", func(t *testing.T) {
		f := newFixture(t)
		stored := storedRegistration(registrationDomain.StatusPending)
		f.repo.On("Get", ctx, stored.ID).Return(stored, nil).Once()
		f.repo.On("UpdateStatus", ctx, stored.ID, registrationDomain.StatusPending, registrationDomain.StatusContacted, testNow).
			Return(true, nil).Once()

		err := f.useCase.UpdateStatus(ctx, stored.ID, registrationDomain.StatusContacted)

		require.NoError(t, err)
		f.repo.AssertExpectations(t)
	})

	t.Run("Disallowed transition", func(t *testing.T) {
		f := newFixture(t)
		stored := storedRegistration(registrationDomain.StatusSucceeded)
		f.repo.On("Get", ctx, stored.ID).Return(stored, nil).Once()

		err := f.useCase.UpdateStatus(ctx, stored.ID, registrationDomain.StatusRejected)

		assert.ErrorIs(t, err, registrationDomain.ErrInvalidStatusTransition)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Concurrent change", func(t *testing.T) {
		f := newFixture(t)
		stored := storedRegistration(registrationDomain.StatusContacted)
		f.repo.On("Get", ctx, stored.ID).Return(stored, nil).Once()
		f.repo.On("UpdateStatus", ctx, stored.ID, registrationDomain.StatusContacted, registrationDomain.StatusSucceeded, testNow).
			Return(false, nil).Once()

		err := f.useCase.UpdateStatus(ctx, stored.ID, registrationDomain.StatusSucceeded)

		assert.ErrorIs(t, err, registrationDomain.ErrInvalidStatusTransition)
	})

	t.Run("Unknown status", func(t *testing.T) {
		f := newFixture(t)

		err := f.useCase.UpdateStatus(ctx, uuid.Must(uuid.NewV7()), "archived")

		assert.ErrorIs(t, err, registrationDomain.ErrInvalidStatus)
		f.repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}
