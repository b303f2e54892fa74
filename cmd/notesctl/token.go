package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/security/token"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func tokenCmd() *cli.Command {
	var secret string
	var ttl time.Duration

	service := func() (*token.Service, error) {
		return token.NewService([]byte(secret), ttl)
	}

	return &cli.Command{
		Name:  "token",
		Usage: "Issue and check session tokens",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "jwt-secret", EnvVars: []string{"JWT_SECRET"}, Required: true, Destination: &secret},
			&cli.DurationFlag{Name: "ttl", EnvVars: []string{"TOKEN_TTL"}, Value: token.DefaultTTL, Destination: &ttl},
		},
		Subcommands: []*cli.Command{
			{
				Name:      "issue",
				Usage:     "Sign a token for a user id",
				ArgsUsage: "<user-id>",
				Action: func(c *cli.Context) error {
					userID, err := uuid.Parse(c.Args().First())
					if err != nil {
						return fmt.Errorf("user id: %w", err)
					}
					svc, err := service()
					if err != nil {
						return err
					}
					raw, expiresAt, err := svc.Issue(userID)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, raw)
					fmt.Fprintf(c.App.ErrWriter, "expires %s\n", expiresAt.Format(time.RFC3339))
					return nil
				},
			},
			{
				Name:      "verify",
				Usage:     "Check a token and print the user id it carries",
				ArgsUsage: "<token>",
				Action: func(c *cli.Context) error {
					raw := c.Args().First()
					if raw == "" {
						return errors.New("missing token argument")
					}
					svc, err := service()
					if err != nil {
						return err
					}
					userID, err := svc.Verify(raw)
					if err != nil {
						return fmt.Errorf("%s: %w", token.Reason(err), err)
					}
					fmt.Fprintln(c.App.Writer, userID)
					return nil
				},
			},
		},
	}
}
