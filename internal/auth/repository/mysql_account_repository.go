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

const mysqlAccountColumns = `id, email, password_hash, role, is_active, created_at, updated_at`

// MySQLAccountRepository implements the account directory for MySQL.
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQL account repository.
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}

func (m *MySQLAccountRepository) Create(ctx context.Context, account *authDomain.Account) error {
	querier := database.GetTx(ctx, m.db)

	id, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}

	query := `INSERT INTO accounts (` + mysqlAccountColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

// Update persists the mutable fields. MySQL reports zero affected rows when
// the values are unchanged, so existence is checked with a separate lookup.
func (m *MySQLAccountRepository) Update(ctx context.Context, account *authDomain.Account) error {
	querier := database.GetTx(ctx, m.db)

	id, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}

	query := `UPDATE accounts
			  SET email = ?,
				  password_hash = ?,
				  role = ?,
				  is_active = ?,
				  updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		account.IsActive,
		account.UpdatedAt,
		id,
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
		if _, err := m.FindByID(ctx, account.ID); err != nil {
			return err
		}
	}
	return nil
}

func (m *MySQLAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*authDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal account id")
	}

	query := `SELECT ` + mysqlAccountColumns + ` FROM accounts WHERE id = ?`

	return scanMySQLAccount(querier.QueryRowContext(ctx, query, idBytes))
}

func (m *MySQLAccountRepository) FindByEmail(ctx context.Context, email string) (*authDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlAccountColumns + ` FROM accounts WHERE email = ?`

	return scanMySQLAccount(querier.QueryRowContext(ctx, query, email))
}

func (m *MySQLAccountRepository) List(ctx context.Context, offset, limit int) ([]*authDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlAccountColumns + ` FROM accounts
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts")
	}
	defer func() {
		_ = rows.Close()
	}()

	accounts := make([]*authDomain.Account, 0)
	for rows.Next() {
		account, err := scanMySQLAccount(rows)
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

func scanMySQLAccount(row rowScanner) (*authDomain.Account, error) {
	var account authDomain.Account
	var idBytes []byte
	var role string

	err := row.Scan(
		&idBytes,
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

	if err := account.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal account id")
	}
	account.Role = authDomain.Role(role)

	return &account, nil
}
