// Package service implements the duplicate submission guard for public
// registrations.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/allisson/siteapi/internal/cache"
	registrationDomain "github.com/allisson/siteapi/internal/registration/domain"
)

const cacheKeyPrefix = "registration:phone:"

// RecentFinder lists registrations created at or after since.
type RecentFinder interface {
	FindRecent(ctx context.Context, since time.Time) ([]*registrationDomain.Registration, error)
}

// IdentityCipher opens stored phone envelopes and derives lookup keys.
type IdentityCipher interface {
	DecryptField(envelope string) (string, error)
	LookupKey(plaintext string) string
}

// CreateFunc persists an accepted submission. It must report a lost
// storage-level claim as ErrDuplicateSubmission.
type CreateFunc func(ctx context.Context, lookupKey string) error

// DuplicateGuard accepts at most one submission per identity per window.
// The cache and the recent-record scan are shortcuts; the claim made inside
// CreateFunc is authoritative.
type DuplicateGuard struct {
	cache  cache.Cache
	finder RecentFinder
	cipher IdentityCipher
	window time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// GuardOption configures a DuplicateGuard.
type GuardOption func(*DuplicateGuard)

// WithGuardClock overrides the time source.
func WithGuardClock(now func() time.Time) GuardOption {
	return func(g *DuplicateGuard) {
		g.now = now
	}
}

// NewDuplicateGuard creates a guard. window drives the scan range and the cache TTL.
func NewDuplicateGuard(
	c cache.Cache,
	finder RecentFinder,
	cipher IdentityCipher,
	window time.Duration,
	logger *slog.Logger,
	opts ...GuardOption,
) *DuplicateGuard {
	g := &DuplicateGuard{
		cache:  c,
		finder: finder,
		cipher: cipher,
		window: window,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Window returns the duplicate window.
func (g *DuplicateGuard) Window() time.Duration {
	return g.window
}

// TryAccept runs create unless identity was accepted within the window.
// identity must already be normalized. Returns ErrDuplicateSubmission when
// rejected, nil when accepted, and any other error from the store or create.
func (g *DuplicateGuard) TryAccept(ctx context.Context, identity string, create CreateFunc) error {
	lookupKey := g.cipher.LookupKey(identity)
	cacheKey := cacheKeyPrefix + lookupKey

	_, hit, err := g.cache.Get(ctx, cacheKey)
	switch {
	case err != nil:
		g.logger.WarnContext(ctx, "duplicate guard cache read failed", slog.Any("error", err))
	case hit:
		return registrationDomain.ErrDuplicateSubmission
	}

	duplicate, err := g.scanRecent(ctx, identity)
	if err != nil {
		return err
	}
	if duplicate {
		g.seed(ctx, cacheKey)
		return registrationDomain.ErrDuplicateSubmission
	}

	if err := create(ctx, lookupKey); err != nil {
		if errors.Is(err, registrationDomain.ErrDuplicateSubmission) {
			g.seed(ctx, cacheKey)
		}
		return err
	}

	g.seed(ctx, cacheKey)
	return nil
}

func (g *DuplicateGuard) scanRecent(ctx context.Context, identity string) (bool, error) {
	recent, err := g.finder.FindRecent(ctx, g.now().Add(-g.window))
	if err != nil {
		return false, err
	}

	want := []byte(identity)
	for _, r := range recent {
		phone, err := g.cipher.DecryptField(r.PhoneEncrypted)
		if err != nil {
			g.logger.WarnContext(ctx, "skipping undecryptable registration in duplicate scan",
				slog.String("registration_id", r.ID.String()),
				slog.Any("error", err))
			continue
		}
		if subtle.ConstantTimeCompare([]byte(phone), want) == 1 {
			return true, nil
		}
	}
	return false, nil
}

func (g *DuplicateGuard) seed(ctx context.Context, cacheKey string) {
	if err := g.cache.Set(ctx, cacheKey, "1", g.window); err != nil {
		g.logger.WarnContext(ctx, "duplicate guard cache write failed", slog.Any("error", err))
	}
}
