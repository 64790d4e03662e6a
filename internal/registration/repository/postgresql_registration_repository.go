// Package repository implements registration and duplicate guard persistence
// for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/siteapi/internal/database"
	apperrors "github.com/allisson/siteapi/internal/errors"
	registrationDomain "github.com/allisson/siteapi/internal/registration/domain"
)

const registrationColumns = `id, full_name, phone_encrypted, phone_lookup, email, business_model,
	message, source, status, created_at, updated_at`

// PostgreSQLRegistrationRepository implements registration persistence for PostgreSQL.
type PostgreSQLRegistrationRepository struct {
	db *sql.DB
}

// NewPostgreSQLRegistrationRepository creates a new PostgreSQL registration repository.
func NewPostgreSQLRegistrationRepository(db *sql.DB) *PostgreSQLRegistrationRepository {
	return &PostgreSQLRegistrationRepository{db: db}
}

func (p *PostgreSQLRegistrationRepository) Create(
	ctx context.Context,
	registration *registrationDomain.Registration,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO registrations (` + registrationColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		registration.ID,
		registration.FullName,
		registration.PhoneEncrypted,
		registration.PhoneLookup,
		registration.Email,
		registration.BusinessModel,
		registration.Message,
		registration.Source,
		string(registration.Status),
		registration.CreatedAt,
		registration.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create registration")
	}
	return nil
}

func (p *PostgreSQLRegistrationRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*registrationDomain.Registration, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`

	return scanPostgreSQLRegistration(querier.QueryRowContext(ctx, query, id))
}

func (p *PostgreSQLRegistrationRepository) List(
	ctx context.Context,
	filter registrationDomain.ListFilter,
) ([]*registrationDomain.Registration, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + registrationColumns + ` FROM registrations`
	args := make([]any, 0, 3)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += ` WHERE status = $1`
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	return p.query(ctx, querier, query, args...)
}

func (p *PostgreSQLRegistrationRepository) Count(
	ctx context.Context,
	status *registrationDomain.Status,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM registrations`
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count registrations")
	}
	return count, nil
}

func (p *PostgreSQLRegistrationRepository) FindRecent(
	ctx context.Context,
	since time.Time,
) ([]*registrationDomain.Registration, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + registrationColumns + ` FROM registrations
			  WHERE created_at >= $1
			  ORDER BY created_at DESC`

	return p.query(ctx, querier, query, since)
}

func (p *PostgreSQLRegistrationRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to registrationDomain.Status,
	updatedAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE registrations
			  SET status = $1, updated_at = $2
			  WHERE id = $3 AND status = $4`

	result, err := querier.ExecContext(ctx, query, string(to), updatedAt, id, string(from))
	if err != nil {
		return false, apperrors.Wrap(err, "failed to update registration status")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rows > 0, nil
}

// ClaimGuard inserts the guard row, or takes over an expired one. A live
// claim by another registration leaves the row untouched and affects no rows.
func (p *PostgreSQLRegistrationRepository) ClaimGuard(
	ctx context.Context,
	lookupKey string,
	registrationID uuid.UUID,
	now, expiresAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO registration_guards (lookup_key, registration_id, expires_at, created_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (lookup_key) DO UPDATE
			  SET registration_id = EXCLUDED.registration_id,
				  expires_at = EXCLUDED.expires_at,
				  created_at = EXCLUDED.created_at
			  WHERE registration_guards.expires_at < EXCLUDED.created_at`

	result, err := querier.ExecContext(ctx, query, lookupKey, registrationID, expiresAt, now)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to claim registration guard")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rows > 0, nil
}

func (p *PostgreSQLRegistrationRepository) query(
	ctx context.Context,
	querier database.Querier,
	query string,
	args ...any,
) ([]*registrationDomain.Registration, error) {
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query registrations")
	}
	defer func() {
		_ = rows.Close()
	}()

	registrations := make([]*registrationDomain.Registration, 0)
	for rows.Next() {
		registration, err := scanPostgreSQLRegistration(rows)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, registration)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate registrations")
	}

	return registrations, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLRegistration(row rowScanner) (*registrationDomain.Registration, error) {
	var r registrationDomain.Registration
	var status string

	err := row.Scan(
		&r.ID,
		&r.FullName,
		&r.PhoneEncrypted,
		&r.PhoneLookup,
		&r.Email,
		&r.BusinessModel,
		&r.Message,
		&r.Source,
		&status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registrationDomain.ErrRegistrationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan registration")
	}
	r.Status = registrationDomain.Status(status)

	return &r, nil
}
