// Package main provides the entry point for the magentadb CLI.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// databaseOverride holds the value of the global --database flag, captured
// by the root command's Before hook so every subcommand sees it regardless
// of how urfave/cli scopes flag inheritance between parent and child commands.
var databaseOverride string

func main() {
	cmd := &cli.Command{
		Name:    "magentadb",
		Usage:   "Encrypted, searchable document store",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "",
				Usage:   "Path to the snapshot file (defaults to $DATABASE_PATH or magentadb.json)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			databaseOverride = cmd.String("database")
			return ctx, nil
		},
		Commands: getDocumentCommands(),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
