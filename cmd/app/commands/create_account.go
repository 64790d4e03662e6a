package commands

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
	authUseCase "github.com/allisson/siteapi/internal/auth/usecase"
	customValidation "github.com/allisson/siteapi/internal/validation"
)

// RunCreateAccount creates an admin-panel account.
// When password is empty it is read from the IO reader.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAccount(
	ctx context.Context,
	accountUseCase authUseCase.AccountUseCase,
	logger *slog.Logger,
	email string,
	password string,
	role string,
	format string,
	io IOTuple,
) error {
	email = authDomain.NormalizeEmail(email)
	if err := validation.Validate(email, validation.Required, customValidation.Email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	accountRole, err := parseRole(role)
	if err != nil {
		return err
	}

	password, err = promptPassword(io, password)
	if err != nil {
		return err
	}
	if err := validation.Validate(password, validation.Required, customValidation.AdminPassword); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	logger.Info("creating new account", slog.String("email", email), slog.String("role", string(accountRole)))

	account, err := accountUseCase.Create(ctx, email, password, accountRole)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	outputAccount(io.Writer, format, "Account created successfully!", account)

	logger.Info("account created successfully",
		slog.String("account_id", account.ID.String()),
		slog.String("role", string(account.Role)),
	)

	return nil
}
