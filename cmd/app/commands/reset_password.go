package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	validation "github.com/jellydator/validation"

	authUseCase "github.com/allisson/siteapi/internal/auth/usecase"
	customValidation "github.com/allisson/siteapi/internal/validation"
)

// RunResetPassword replaces the password of an account.
// When password is empty it is read from the IO reader.
func RunResetPassword(
	ctx context.Context,
	accountUseCase authUseCase.AccountUseCase,
	logger *slog.Logger,
	accountID string,
	password string,
	format string,
	io IOTuple,
) error {
	id, err := parseAccountID(accountID)
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

	if err := accountUseCase.ResetPassword(ctx, id, password); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	if format == "json" {
		jsonBytes, err := json.MarshalIndent(map[string]any{
			"id":    id.String(),
			"reset": true,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(io.Writer, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintf(io.Writer, "\nPassword reset for account %s\n", id.String())
	}

	logger.Info("password reset", slog.String("account_id", id.String()))
	return nil
}
