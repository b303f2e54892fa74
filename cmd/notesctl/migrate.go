package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func migrateCmd(db *dbFlags) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(c *cli.Context) error {
					s, err := db.open(c)
					if err != nil {
						return err
					}
					defer s.Close()

					if err := s.Migrate(c.Context); err != nil {
						return err
					}
					v, err := s.SchemaVersion(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "schema at version %d\n", v)
					return nil
				},
			},
			{
				Name:  "version",
				Usage: "Print the applied schema version",
				Action: func(c *cli.Context) error {
					s, err := db.open(c)
					if err != nil {
						return err
					}
					defer s.Close()

					v, err := s.SchemaVersion(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, v)
					return nil
				},
			},
		},
	}
}
