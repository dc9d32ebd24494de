package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/pqvault/cmd/app/commands"
	"github.com/allisson/pqvault/internal/app"
	"github.com/allisson/pqvault/internal/config"
)

func getAPIKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "generate-api-key",
			Usage: "Issue a new API key for an existing user",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Email of the key owner",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable key name",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Usage:   "Optional key description",
				},
				&cli.IntFlag{
					Name:    "expiry-days",
					Aliases: []string{"x"},
					Value:   0,
					Usage:   "Days until the key expires (0 uses the configured default)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				apiKeyUC, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}

				userUC, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunGenerateAPIKey(
					ctx,
					apiKeyUC,
					userUC,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("email"),
					cmd.String("name"),
					cmd.String("description"),
					int(cmd.Int("expiry-days")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "rotate-api-key",
			Usage: "Replace an API key's value, deactivating the old one",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "API key ID (UUID)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				apiKeyUC, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateAPIKey(
					ctx,
					apiKeyUC,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "sweep-expired-keys",
			Usage: "Deactivate API keys whose expiry instant has passed",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				apiKeyUC, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunSweepExpiredKeys(
					ctx,
					apiKeyUC,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
