package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/siteapi/internal/database"
	apperrors "github.com/allisson/siteapi/internal/errors"
	registrationDomain "github.com/allisson/siteapi/internal/registration/domain"
)

// MySQLRegistrationRepository implements registration persistence for MySQL.
// Identifiers are stored as BINARY(16).
type MySQLRegistrationRepository struct {
	db *sql.DB
}

// NewMySQLRegistrationRepository creates a new MySQL registration repository.
func NewMySQLRegistrationRepository(db *sql.DB) *MySQLRegistrationRepository {
	return &MySQLRegistrationRepository{db: db}
}

func (m *MySQLRegistrationRepository) Create(
	ctx context.Context,
	registration *registrationDomain.Registration,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := registration.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal registration id")
	}

	query := `INSERT INTO registrations (` + registrationColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

func (m *MySQLRegistrationRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*registrationDomain.Registration, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal registration id")
	}

	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = ?`

	return scanMySQLRegistration(querier.QueryRowContext(ctx, query, idBytes))
}

func (m *MySQLRegistrationRepository) List(
	ctx context.Context,
	filter registrationDomain.ListFilter,
) ([]*registrationDomain.Registration, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + registrationColumns + ` FROM registrations`
	args := make([]any, 0, 3)
	if filter.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*filter.Status))
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	return m.query(ctx, querier, query, args...)
}

func (m *MySQLRegistrationRepository) Count(
	ctx context.Context,
	status *registrationDomain.Status,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM registrations`
	var args []any
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count registrations")
	}
	return count, nil
}

func (m *MySQLRegistrationRepository) FindRecent(
	ctx context.Context,
	since time.Time,
) ([]*registrationDomain.Registration, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + registrationColumns + ` FROM registrations
			  WHERE created_at >= ?
			  ORDER BY created_at DESC`

	return m.query(ctx, querier, query, since)
}

func (m *MySQLRegistrationRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to registrationDomain.Status,
	updatedAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal registration id")
	}

	query := `UPDATE registrations
			  SET status = ?, updated_at = ?
			  WHERE id = ? AND status = ?`

	result, err := querier.ExecContext(ctx, query, string(to), updatedAt, idBytes, string(from))
	if err != nil {
		return false, apperrors.Wrap(err, "failed to update registration status")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rows > 0, nil
}

// ClaimGuard inserts the guard row, or takes over an expired one. MySQL reports
// one affected row for an insert, two for an update and zero when the live
// claim was kept. database.Connect refuses clientFoundRows=true, which would
// report one for the kept claim. expires_at is assigned last so every
// condition sees the stored value.
func (m *MySQLRegistrationRepository) ClaimGuard(
	ctx context.Context,
	lookupKey string,
	registrationID uuid.UUID,
	now, expiresAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := registrationID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal registration id")
	}

	query := `INSERT INTO registration_guards (lookup_key, registration_id, expires_at, created_at)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
				  registration_id = IF(expires_at < VALUES(created_at), VALUES(registration_id), registration_id),
				  created_at = IF(expires_at < VALUES(created_at), VALUES(created_at), created_at),
				  expires_at = IF(expires_at < VALUES(created_at), VALUES(expires_at), expires_at)`

	result, err := querier.ExecContext(ctx, query, lookupKey, idBytes, expiresAt, now)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to claim registration guard")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rows > 0, nil
}

func (m *MySQLRegistrationRepository) query(
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
		registration, err := scanMySQLRegistration(rows)
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

func scanMySQLRegistration(row rowScanner) (*registrationDomain.Registration, error) {
	var r registrationDomain.Registration
	var idBytes []byte
	var status string

	err := row.Scan(
		&idBytes,
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

	if err := r.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal registration id")
	}
	r.Status = registrationDomain.Status(status)

	return &r, nil
}
