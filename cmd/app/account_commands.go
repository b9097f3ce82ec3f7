package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/brujulapp/brujula/cmd/app/commands"
	"github.com/brujulapp/brujula/internal/app"
	"github.com/brujulapp/brujula/internal/config"
)

func getAccountCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-admin",
			Usage: "Create an administrator account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Admin email address",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Account password (omit for interactive prompt)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateAdmin(
					ctx,
					accountUseCase,
					container.Logger(),
					cmd.String("email"),
					cmd.String("password"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "create-student",
			Usage: "Create a student profile with its login account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Student email address",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Account password (omit for interactive prompt)",
				},
				&cli.StringFlag{
					Name:     "full-name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Student full name",
				},
				&cli.StringFlag{
					Name:    "career",
					Aliases: []string{"c"},
					Usage:   "Degree program name",
				},
				&cli.IntFlag{
					Name:    "semester",
					Aliases: []string{"s"},
					Value:   1,
					Usage:   "Current semester number",
				},
				&cli.StringFlag{
					Name:  "stage",
					Value: "exploracion",
					Usage: "Journey stage: exploracion, enfoque, especializacion or graduacion",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				studentUseCase, err := container.StudentUseCase()
				if err != nil {
					return err
				}

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateStudent(
					ctx,
					studentUseCase,
					accountUseCase,
					container.Logger(),
					cmd.String("email"),
					cmd.String("password"),
					cmd.String("full-name"),
					cmd.String("career"),
					int(cmd.Int("semester")),
					cmd.String("stage"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
