// Package usecase implements public lead submission and privileged triage of
// registrations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	registrationDomain "github.com/allisson/siteapi/internal/registration/domain"
	registrationService "github.com/allisson/siteapi/internal/registration/service"
)

// RegistrationRepository persists registrations and duplicate guard claims.
// Implementations must honor the transaction carried by ctx.
type RegistrationRepository interface {
	Create(ctx context.Context, registration *registrationDomain.Registration) error

	// Get returns ErrRegistrationNotFound when absent.
	Get(ctx context.Context, id uuid.UUID) (*registrationDomain.Registration, error)

	// List returns registrations newest first.
	List(ctx context.Context, filter registrationDomain.ListFilter) ([]*registrationDomain.Registration, error)

	// Count counts registrations, optionally restricted to one status.
	Count(ctx context.Context, status *registrationDomain.Status) (int64, error)

	// FindRecent returns registrations created at or after since.
	FindRecent(ctx context.Context, since time.Time) ([]*registrationDomain.Registration, error)

	// UpdateStatus moves a registration from one status to another. It reports
	// false when the registration is missing or no longer in status from.
	UpdateStatus(
		ctx context.Context,
		id uuid.UUID,
		from, to registrationDomain.Status,
		updatedAt time.Time,
	) (bool, error)

	// ClaimGuard takes the guard row for lookupKey unless an unexpired claim
	// exists. It reports whether the claim was taken.
	ClaimGuard(ctx context.Context, lookupKey string, registrationID uuid.UUID, now, expiresAt time.Time) (bool, error)
}

// SubmissionGuard rejects repeated submissions of the same identity.
type SubmissionGuard interface {
	TryAccept(ctx context.Context, identity string, create registrationService.CreateFunc) error
	Window() time.Duration
}

// RegistrationUseCase is the registration workflow.
type RegistrationUseCase interface {
	// Submit stores a public submission. Returns ErrDuplicateSubmission when
	// the phone number was accepted within the duplicate window.
	Submit(ctx context.Context, input registrationDomain.SubmitInput) (*registrationDomain.Registration, error)

	// Get returns a registration with its phone decrypted. A phone that cannot
	// be decrypted is an error.
	Get(ctx context.Context, id uuid.UUID) (*registrationDomain.RegistrationView, error)

	// List returns a page of registrations. Phones that cannot be decrypted
	// are withheld and flagged rather than failing the page.
	List(ctx context.Context, filter registrationDomain.ListFilter) ([]*registrationDomain.RegistrationView, error)

	Count(ctx context.Context, status *registrationDomain.Status) (int64, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status registrationDomain.Status) error
}
