package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/magentadb/cmd/app/commands"
	"github.com/allisson/magentadb/internal/app"
	"github.com/allisson/magentadb/internal/config"
)

// withStore loads configuration (honoring the global --database override),
// assembles a container, and runs fn against it (fn opens the store through
// the container), shutting the container down (wiping the in-memory key)
// once fn returns.
func withStore(ctx context.Context, cmd *cli.Command, fn func(*app.Container, commands.IOTuple) error) error {
	cfg := config.Load()
	if databaseOverride != "" {
		cfg.DatabasePath = databaseOverride
	}

	container := app.NewContainer(cfg)
	defer func() { _ = container.Shutdown(ctx) }()

	return fn(container, commands.DefaultIO())
}

func getDocumentCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "insert",
			Usage:     "Insert or replace a field on a document",
			ArgsUsage: "<doc_id> <field_name> <value>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 3 {
					return cli.Exit("insert requires exactly 3 arguments: doc_id field_name value", 1)
				}
				return withStore(ctx, cmd, func(c *app.Container, io commands.IOTuple) error {
					s, err := c.Store()
					if err != nil {
						return err
					}
					return commands.RunInsert(s, c.Logger(), io, cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2))
				})
			},
		},
		{
			Name:      "show",
			Usage:     "Show a document's masked fields",
			ArgsUsage: "<doc_id>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 1 {
					return cli.Exit("show requires exactly 1 argument: doc_id", 1)
				}
				return withStore(ctx, cmd, func(c *app.Container, io commands.IOTuple) error {
					s, err := c.Store()
					if err != nil {
						return err
					}
					return commands.RunShow(s, io, cmd.Args().Get(0))
				})
			},
		},
		{
			Name:      "query",
			Usage:     "List the doc_ids of documents with a field matching value exactly",
			ArgsUsage: "<value>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 1 {
					return cli.Exit("query requires exactly 1 argument: value", 1)
				}
				return withStore(ctx, cmd, func(c *app.Container, io commands.IOTuple) error {
					s, err := c.Store()
					if err != nil {
						return err
					}
					return commands.RunQuery(s, io, cmd.Args().Get(0))
				})
			},
		},
		{
			Name:      "decrypt",
			Usage:     "Decrypt and print a field's plaintext",
			ArgsUsage: "<doc_id> <field_name>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 2 {
					return cli.Exit("decrypt requires exactly 2 arguments: doc_id field_name", 1)
				}
				return withStore(ctx, cmd, func(c *app.Container, io commands.IOTuple) error {
					s, err := c.Store()
					if err != nil {
						return err
					}
					return commands.RunDecrypt(s, io, cmd.Args().Get(0), cmd.Args().Get(1))
				})
			},
		},
		{
			Name:  "list",
			Usage: "List all documents",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "verbose",
					Aliases: []string{"v"},
					Value:   false,
					Usage:   "Show per-field detail (token, ciphertext length, mask)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withStore(ctx, cmd, func(c *app.Container, io commands.IOTuple) error {
					s, err := c.Store()
					if err != nil {
						return err
					}
					return commands.RunList(s, io, cmd.Bool("verbose"))
				})
			},
		},
		{
			Name:      "remove",
			Usage:     "Remove a document",
			ArgsUsage: "<doc_id>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 1 {
					return cli.Exit("remove requires exactly 1 argument: doc_id", 1)
				}
				return withStore(ctx, cmd, func(c *app.Container, io commands.IOTuple) error {
					s, err := c.Store()
					if err != nil {
						return err
					}
					return commands.RunRemove(s, c.Logger(), io, cmd.Args().Get(0))
				})
			},
		},
		{
			Name:  "clear",
			Usage: "Remove every document",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "force",
					Aliases: []string{"f"},
					Value:   false,
					Usage:   "Skip the interactive confirmation prompt",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withStore(ctx, cmd, func(c *app.Container, io commands.IOTuple) error {
					s, err := c.Store()
					if err != nil {
						return err
					}
					return commands.RunClear(s, c.Logger(), io, cmd.Bool("force"))
				})
			},
		},
		{
			Name:  "stats",
			Usage: "Show store-wide counters",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withStore(ctx, cmd, func(c *app.Container, io commands.IOTuple) error {
					s, err := c.Store()
					if err != nil {
						return err
					}
					return commands.RunStats(s, io)
				})
			},
		},
	}
}
