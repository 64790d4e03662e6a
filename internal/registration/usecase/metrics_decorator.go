package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/siteapi/internal/metrics"
	registrationDomain "github.com/allisson/siteapi/internal/registration/domain"
)

const metricsDomain = "registration"

// registrationUseCaseWithMetrics decorates RegistrationUseCase with metrics instrumentation.
type registrationUseCaseWithMetrics struct {
	next    RegistrationUseCase
	metrics metrics.BusinessMetrics
}

// NewRegistrationUseCaseWithMetrics wraps a RegistrationUseCase with metrics recording.
func NewRegistrationUseCaseWithMetrics(useCase RegistrationUseCase, m metrics.BusinessMetrics) RegistrationUseCase {
	return &registrationUseCaseWithMetrics{next: useCase, metrics: m}
}

func (r *registrationUseCaseWithMetrics) Submit(
	ctx context.Context,
	input registrationDomain.SubmitInput,
) (*registrationDomain.Registration, error) {
	start := time.Now()
	registration, err := r.next.Submit(ctx, input)
	metrics.RecordOutcome(ctx, r.metrics, metricsDomain, "submit", start, err)
	return registration, err
}

func (r *registrationUseCaseWithMetrics) Get(
	ctx context.Context,
	id uuid.UUID,
) (*registrationDomain.RegistrationView, error) {
	start := time.Now()
	view, err := r.next.Get(ctx, id)
	metrics.RecordOutcome(ctx, r.metrics, metricsDomain, "get", start, err)
	return view, err
}

func (r *registrationUseCaseWithMetrics) List(
	ctx context.Context,
	filter registrationDomain.ListFilter,
) ([]*registrationDomain.RegistrationView, error) {
	start := time.Now()
	views, err := r.next.List(ctx, filter)
	metrics.RecordOutcome(ctx, r.metrics, metricsDomain, "list", start, err)
	return views, err
}

func (r *registrationUseCaseWithMetrics) Count(
	ctx context.Context,
	status *registrationDomain.Status,
) (int64, error) {
	start := time.Now()
	count, err := r.next.Count(ctx, status)
	metrics.RecordOutcome(ctx, r.metrics, metricsDomain, "count", start, err)
	return count, err
}

func (r *registrationUseCaseWithMetrics) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status registrationDomain.Status,
) error {
	start := time.Now()
	err := r.next.UpdateStatus(ctx, id, status)
	metrics.RecordOutcome(ctx, r.metrics, metricsDomain, "update_status", start, err)
	return err
}
