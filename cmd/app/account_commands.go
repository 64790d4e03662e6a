package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/siteapi/cmd/app/commands"
	"github.com/allisson/siteapi/internal/app"
	"github.com/allisson/siteapi/internal/config"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func passwordFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "password",
		Aliases: []string{"p"},
		Usage:   "Account password (omit to be prompted)",
	}
}

// newAccountContainer loads and validates the configuration before touching the database.
func newAccountContainer() (*app.Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.NewContainer(cfg), nil
}

func getAccountCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-account",
			Usage: "Create an admin-panel account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Login email",
				},
				passwordFlag(),
				&cli.StringFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Value:   "editor",
					Usage:   "Account role: 'admin' or 'editor'",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newAccountContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateAccount(
					ctx,
					accountUseCase,
					container.Logger(),
					cmd.String("email"),
					cmd.String("password"),
					cmd.String("role"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "update-account",
			Usage: "Change the email, role or active flag of an account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Account ID (UUID)",
				},
				&cli.StringFlag{
					Name:    "email",
					Aliases: []string{"e"},
					Usage:   "New login email",
				},
				&cli.StringFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Usage:   "New role: 'admin' or 'editor'",
				},
				&cli.BoolFlag{
					Name:    "active",
					Aliases: []string{"a"},
					Usage:   "Whether the account can log in (--active=false disables it)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newAccountContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}

				var flags commands.UpdateAccountFlags
				if cmd.IsSet("email") {
					email := cmd.String("email")
					flags.Email = &email
				}
				if cmd.IsSet("role") {
					role := cmd.String("role")
					flags.Role = &role
				}
				if cmd.IsSet("active") {
					active := cmd.Bool("active")
					flags.IsActive = &active
				}

				return commands.RunUpdateAccount(
					ctx,
					accountUseCase,
					container.Logger(),
					cmd.String("id"),
					flags,
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "reset-password",
			Usage: "Replace the password of an account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Account ID (UUID)",
				},
				passwordFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newAccountContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}

				return commands.RunResetPassword(
					ctx,
					accountUseCase,
					container.Logger(),
					cmd.String("id"),
					cmd.String("password"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
