package main

import (
	"github.com/ErlanBelekov/notes-api/internal/infrastructure/store"
	"github.com/urfave/cli/v2"
)

type dbFlags struct {
	driver      string
	databaseURL string
	sqlitePath  string
}

func (f *dbFlags) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "driver",
			Usage:       "Database driver (postgres or sqlite)",
			EnvVars:     []string{"DATABASE_DRIVER"},
			Value:       store.DriverPostgres,
			Destination: &f.driver,
		},
		&cli.StringFlag{
			Name:        "database-url",
			Usage:       "Postgres connection string",
			EnvVars:     []string{"DATABASE_URL"},
			Destination: &f.databaseURL,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "Path of the sqlite database file",
			EnvVars:     []string{"SQLITE_PATH"},
			Value:       "data/notes.db",
			Destination: &f.sqlitePath,
		},
	}
}

// open connects to the configured store. Callers Close it.
func (f *dbFlags) open(c *cli.Context) (*store.Store, error) {
	return store.Open(c.Context, store.Options{
		Driver:      f.driver,
		DatabaseURL: f.databaseURL,
		SQLitePath:  f.sqlitePath,
	})
}
