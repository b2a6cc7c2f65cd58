package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/authflow/authflow/cmd/app/commands"
	"github.com/authflow/authflow/internal/app"
	"github.com/authflow/authflow/internal/config"
)

func getClientCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-client",
			Usage: "Register a new OAuth2 client for a tenant",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "tenant-id",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Tenant UUID the client belongs to",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable client name",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Usage:   "Description shown on the consent screen",
				},
				&cli.StringFlag{
					Name:     "redirect-uris",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Comma-separated list of allowed redirect URIs",
				},
				&cli.StringFlag{
					Name:     "scopes",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Comma-separated list of scopes the client may request",
				},
				&cli.BoolFlag{
					Name:    "public",
					Aliases: []string{"p"},
					Value:   false,
					Usage:   "Create a public client (no secret, PKCE required)",
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

				clientUseCase, err := container.ClientUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateClient(
					ctx,
					clientUseCase,
					container.Logger(),
					cmd.String("tenant-id"),
					cmd.String("name"),
					cmd.String("description"),
					cmd.String("redirect-uris"),
					cmd.String("scopes"),
					cmd.Bool("public"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "rotate-client-secret",
			Usage: "Replace a confidential client's secret",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "client-id",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Client UUID whose secret should be rotated",
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

				clientUseCase, err := container.ClientUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateClientSecret(
					ctx,
					clientUseCase,
					container.Logger(),
					cmd.String("client-id"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "clean-expired",
			Usage: "Sweep expired authorization requests, codes, and tokens",
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

				cleanupUseCase, err := container.CleanupUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanExpired(
					ctx,
					cleanupUseCase,
					container.Logger(),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
