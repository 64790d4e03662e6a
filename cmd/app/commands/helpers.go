// Package commands contains CLI command implementations for the application.
package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/google/uuid"

	"github.com/allisson/siteapi/internal/app"
	authDomain "github.com/allisson/siteapi/internal/auth/domain"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseAccountID parses the --id flag.
func parseAccountID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid account id %q: %w", value, err)
	}
	return id, nil
}

// parseRole accepts roles in any case.
func parseRole(value string) (authDomain.Role, error) {
	role := authDomain.Role(strings.ToUpper(strings.TrimSpace(value)))
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s (valid options: admin, editor)", value)
	}
	return role, nil
}

// promptPassword reads a password line from the IO reader when none was given as a flag.
func promptPassword(io IOTuple, password string) (string, error) {
	if password != "" {
		return password, nil
	}

	_, _ = fmt.Fprint(io.Writer, "Enter password: ")
	line, err := bufio.NewReader(io.Reader).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	_, _ = fmt.Fprintln(io.Writer)

	return strings.TrimRight(line, "\r\n"), nil
}

// outputAccount writes an account summary in text or JSON format.
func outputAccount(writer io.Writer, format, title string, account *authDomain.Account) {
	summary := account.Summary()

	if format == "json" {
		result := map[string]any{
			"id":        summary.ID.String(),
			"email":     summary.Email,
			"role":      string(summary.Role),
			"is_active": summary.IsActive,
		}

		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
			return
		}

		_, _ = fmt.Fprintln(writer, string(jsonBytes))
		return
	}

	_, _ = fmt.Fprintf(writer, "\n%s\n", title)
	_, _ = fmt.Fprintf(writer, "Account ID: %s\n", summary.ID.String())
	_, _ = fmt.Fprintf(writer, "Email: %s\n", summary.Email)
	_, _ = fmt.Fprintf(writer, "Role: %s\n", summary.Role)
	_, _ = fmt.Fprintf(writer, "Active: %t\n", summary.IsActive)
}
