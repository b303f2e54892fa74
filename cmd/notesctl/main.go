// notesctl administers a notes database: schema migrations, user
// provisioning and token checks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "notesctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	var db dbFlags
	return &cli.App{
		Name:  "notesctl",
		Usage: "Administer the notes API database",
		Flags: db.flags(),
		Commands: []*cli.Command{
			migrateCmd(&db),
			userCmd(&db),
			tokenCmd(),
		},
	}
}
