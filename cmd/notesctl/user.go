package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ErlanBelekov/notes-api/internal/email"
	"github.com/ErlanBelekov/notes-api/internal/security/password"
	"github.com/ErlanBelekov/notes-api/internal/security/token"
	"github.com/ErlanBelekov/notes-api/internal/usecase"
	"github.com/urfave/cli/v2"
)

func userCmd(db *dbFlags) *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage users",
		Subcommands: []*cli.Command{
			userAddCmd(db),
		},
	}
}

// userAddCmd registers a user through the same validation as the API.
// The password is read from the terminal, or from stdin when piped.
func userAddCmd(db *dbFlags) *cli.Command {
	var name, addr string
	var cost int
	return &cli.Command{
		Name:  "add",
		Usage: "Register a new user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Display name", Required: true, Destination: &name},
			&cli.StringFlag{Name: "email", Usage: "Login email", Required: true, Destination: &addr},
			&cli.IntFlag{Name: "bcrypt-cost", EnvVars: []string{"BCRYPT_COST"}, Value: password.DefaultCost, Destination: &cost},
		},
		Action: func(c *cli.Context) error {
			pw, confirm, err := promptPassword(c.App.ErrWriter)
			if err != nil {
				return err
			}

			s, err := db.open(c)
			if err != nil {
				return err
			}
			defer s.Close()

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			// tokens are never issued here; the secret only has to be non-empty
			tokens, err := token.NewService([]byte("unused"), 0)
			if err != nil {
				return err
			}
			auth := usecase.NewAuthUsecase(s.Users, password.NewHasher(cost), tokens, email.NewLogSender(logger), logger)

			user, err := auth.Register(c.Context, usecase.RegisterInput{
				Name:            name,
				Email:           addr,
				Password:        pw,
				ConfirmPassword: confirm,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "created user %s <%s> id=%s\n", user.Name, user.Email, user.ID)
			return nil
		},
	}
}
