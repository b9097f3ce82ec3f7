package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/brujulapp/brujula/cmd/app/commands"
	"github.com/brujulapp/brujula/internal/app"
	"github.com/brujulapp/brujula/internal/config"
)

func getAdminCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "export-students",
			Usage: "Export the student report as CSV",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Output file path (omit to write to stdout)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				adminStudentUseCase, err := container.AdminStudentUseCase()
				if err != nil {
					return err
				}

				return commands.RunExportStudents(
					ctx,
					adminStudentUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("output"),
				)
			},
		},
		{
			Name:  "verify-audit-logs",
			Usage: "Verify cryptographic integrity of audit logs",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "page-size",
					Aliases: []string{"p"},
					Value:   500,
					Usage:   "Records verified per page",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				auditLogUseCase, err := container.AuditLogUseCase()
				if err != nil {
					return err
				}

				return commands.RunVerifyAuditLogs(
					ctx,
					auditLogUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("page-size")),
				)
			},
		},
	}
}
