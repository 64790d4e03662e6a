package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
	authUseCase "github.com/allisson/siteapi/internal/auth/usecase"
	customValidation "github.com/allisson/siteapi/internal/validation"
)

// UpdateAccountFlags holds the optional update-account flags. Nil pointers are unchanged fields.
type UpdateAccountFlags struct {
	Email    *string
	Role     *string
	IsActive *bool
}

// RunUpdateAccount changes the email, role or active flag of an account.
//
// Requirements: Database must be migrated and accessible.
func RunUpdateAccount(
	ctx context.Context,
	accountUseCase authUseCase.AccountUseCase,
	logger *slog.Logger,
	accountID string,
	flags UpdateAccountFlags,
	format string,
	io IOTuple,
) error {
	id, err := parseAccountID(accountID)
	if err != nil {
		return err
	}

	var input authDomain.UpdateAccountInput
	if flags.Email != nil {
		email := authDomain.NormalizeEmail(*flags.Email)
		if err := validation.Validate(email, validation.Required, customValidation.Email); err != nil {
			return fmt.Errorf("invalid email: %w", err)
		}
		input.Email = &email
	}
	if flags.Role != nil {
		role, err := parseRole(*flags.Role)
		if err != nil {
			return err
		}
		input.Role = &role
	}
	input.IsActive = flags.IsActive

	if input.IsEmpty() {
		return errors.New("nothing to update: pass at least one of --email, --role or --active")
	}

	logger.Info("updating account", slog.String("account_id", id.String()))

	account, err := accountUseCase.Update(ctx, id, input)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	outputAccount(io.Writer, format, "Account updated successfully!", account)

	logger.Info("account updated successfully",
		slog.String("account_id", account.ID.String()),
		slog.Bool("is_active", account.IsActive),
	)

	return nil
}
