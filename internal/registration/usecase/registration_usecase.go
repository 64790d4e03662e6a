package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/allisson/siteapi/internal/crypto/service"
	"github.com/allisson/siteapi/internal/database"
	apperrors "github.com/allisson/siteapi/internal/errors"
	registrationDomain "github.com/allisson/siteapi/internal/registration/domain"
	"github.com/allisson/siteapi/internal/validation"
)

type registrationUseCase struct {
	txManager database.TxManager
	repo      RegistrationRepository
	guard     SubmissionGuard
	cipher    cryptoService.FieldCipher
	now       func() time.Time
	logger    *slog.Logger
}

// NewRegistrationUseCase creates a RegistrationUseCase.
func NewRegistrationUseCase(
	txManager database.TxManager,
	repo RegistrationRepository,
	guard SubmissionGuard,
	cipher cryptoService.FieldCipher,
	logger *slog.Logger,
) RegistrationUseCase {
	return &registrationUseCase{
		txManager: txManager,
		repo:      repo,
		guard:     guard,
		cipher:    cipher,
		now:       time.Now,
		logger:    logger,
	}
}

func (r *registrationUseCase) Submit(
	ctx context.Context,
	input registrationDomain.SubmitInput,
) (*registrationDomain.Registration, error) {
	phone := validation.NormalizePhone(input.Phone)
	if phone == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "phone is required")
	}

	envelope, err := r.cipher.EncryptField(phone)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt phone")
	}

	now := r.now().UTC()
	registration := &registrationDomain.Registration{
		ID:             uuid.Must(uuid.NewV7()),
		FullName:       strings.TrimSpace(input.FullName),
		PhoneEncrypted: envelope,
		Email:          strings.TrimSpace(input.Email),
		BusinessModel:  strings.TrimSpace(input.BusinessModel),
		Message:        strings.TrimSpace(input.Message),
		Source:         strings.TrimSpace(input.Source),
		Status:         registrationDomain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = r.guard.TryAccept(ctx, phone, func(ctx context.Context, lookupKey string) error {
		registration.PhoneLookup = lookupKey
		return r.txManager.WithTx(ctx, func(ctx context.Context) error {
			claimed, err := r.repo.ClaimGuard(ctx, lookupKey, registration.ID, now, now.Add(r.guard.Window()))
			if err != nil {
				return err
			}
			if !claimed {
				return registrationDomain.ErrDuplicateSubmission
			}
			return r.repo.Create(ctx, registration)
		})
	})
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "registration accepted",
		slog.String("registration_id", registration.ID.String()),
		slog.String("source", registration.Source))

	return registration, nil
}

func (r *registrationUseCase) Get(ctx context.Context, id uuid.UUID) (*registrationDomain.RegistrationView, error) {
	registration, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	phone, err := r.cipher.DecryptField(registration.PhoneEncrypted)
	if err != nil {
		return nil, apperrors.Wrapf(err, "registration %s", id)
	}

	return &registrationDomain.RegistrationView{Registration: *registration, Phone: phone}, nil
}

func (r *registrationUseCase) List(
	ctx context.Context,
	filter registrationDomain.ListFilter,
) ([]*registrationDomain.RegistrationView, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, registrationDomain.ErrInvalidStatus
	}

	registrations, err := r.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]*registrationDomain.RegistrationView, 0, len(registrations))
	for _, registration := range registrations {
		view := &registrationDomain.RegistrationView{Registration: *registration}
		phone, err := r.cipher.DecryptField(registration.PhoneEncrypted)
		if err != nil {
			r.logger.WarnContext(ctx, "withholding undecryptable phone",
				slog.String("registration_id", registration.ID.String()),
				slog.Any("error", err))
			view.PhoneUnavailable = true
		} else {
			view.Phone = phone
		}
		views = append(views, view)
	}

	return views, nil
}

func (r *registrationUseCase) Count(ctx context.Context, status *registrationDomain.Status) (int64, error) {
	if status != nil && !status.IsValid() {
		return 0, registrationDomain.ErrInvalidStatus
	}
	return r.repo.Count(ctx, status)
}

func (r *registrationUseCase) UpdateStatus(ctx context.Context, id uuid.UUID, status registrationDomain.Status) error {
	if !status.IsValid() {
		return registrationDomain.ErrInvalidStatus
	}

	current, err := r.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !current.Status.CanTransitionTo(status) {
		return apperrors.Wrapf(registrationDomain.ErrInvalidStatusTransition, "%s to %s", current.Status, status)
	}

	updated, err := r.repo.UpdateStatus(ctx, id, current.Status, status, r.now().UTC())
	if err != nil {
		return err
	}
	if !updated {
		// status changed between the read and the write
		return apperrors.Wrapf(registrationDomain.ErrInvalidStatusTransition, "%s changed concurrently", id)
	}

	r.logger.InfoContext(ctx, "registration status changed",
		slog.String("registration_id", id.String()),
		slog.String("from", string(current.Status)),
		slog.String("to", string(status)))

	return nil
}
