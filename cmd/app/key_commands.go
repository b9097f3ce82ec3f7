package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/brujulapp/brujula/cmd/app/commands"
	"github.com/brujulapp/brujula/internal/app"
	"github.com/brujulapp/brujula/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "keyring-check",
			Usage: "Report key ring coverage of stored matricula envelopes",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyRing, err := container.KeyRing()
				if err != nil {
					return err
				}

				studentRepo, err := container.StudentRepository()
				if err != nil {
					return err
				}

				return commands.RunKeyringCheck(
					ctx,
					keyRing,
					studentRepo,
					container.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "reencrypt-matriculas",
			Usage: "Re-encrypt matricula envelopes under the current key",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "page-size",
					Aliases: []string{"p"},
					Value:   0,
					Usage:   "Records per page (0 uses the configured default)",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Count records that would be rewritten without writing",
				},
				&cli.StringFlag{
					Name:  "resume-token",
					Usage: "Resume an interrupted sweep from this token",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				sweepUseCase, err := container.SweepUseCase()
				if err != nil {
					return err
				}

				pageSize := int(cmd.Int("page-size"))
				if pageSize <= 0 {
					pageSize = cfg.SweepPageSize
				}

				return commands.RunReencryptMatriculas(
					ctx,
					sweepUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					pageSize,
					cmd.Bool("dry-run"),
					cmd.String("resume-token"),
				)
			},
		},
	}
}
