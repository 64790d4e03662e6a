// Package repository implements account persistence for PostgreSQL and MySQL.
//
// PostgreSQL stores ids as native UUID, MySQL as BINARY(16). Both honor the
// transaction carried by the context through database.GetTx.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
	"github.com/allisson/siteapi/internal/database"
	apperrors "github.com/allisson/siteapi/internal/errors"
)

const postgresAccountColumns = `id, email, password_hash, role, is_active, created_at, updated_at`

// PostgreSQLAccountRepository implements the account directory for PostgreSQL.
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQL account repository.
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{db: db}
}

func (p *PostgreSQLAccountRepository) Create(ctx context.Context, account *authDomain.Account) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO accounts (` + postgresAccountColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		account.ID,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		account.IsActive,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return authDomain.ErrAccountAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

func (p *PostgreSQLAccountRepository) Update(ctx context.Context, account *authDomain.Account) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE accounts
			  SET email = $1,
				  password_hash = $2,
				  role = $3,
				  is_active = $4,
				  updated_at = $5
			  WHERE id = $6`

	result, err := querier.ExecContext(
		ctx,
		query,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		account.IsActive,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return authDomain.ErrAccountAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update account")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return authDomain.ErrAccountNotFound
	}
	return nil
}

func (p *PostgreSQLAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*authDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresAccountColumns + ` FROM accounts WHERE id = $1`

	return scanPostgreSQLAccount(querier.QueryRowContext(ctx, query, id))
}

func (p *PostgreSQLAccountRepository) FindByEmail(ctx context.Context, email string) (*authDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresAccountColumns + ` FROM accounts WHERE email = $1`

	return scanPostgreSQLAccount(querier.QueryRowContext(ctx, query, email))
}

func (p *PostgreSQLAccountRepository) List(ctx context.Context, offset, limit int) ([]*authDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresAccountColumns + ` FROM accounts
			  ORDER BY created_at DESC, id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts")
	}
	defer func() {
		_ = rows.Close()
	}()

	accounts := make([]*authDomain.Account, 0)
	for rows.Next() {
		account, err := scanPostgreSQLAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate accounts")
	}

	return accounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLAccount(row rowScanner) (*authDomain.Account, error) {
	var account authDomain.Account
	var role string

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&role,
		&account.IsActive,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan account")
	}
	account.Role = authDomain.Role(role)

	return &account, nil
}
