package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/photostore/middlewares"
)

func (c *cli) tokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token USER_ID",
		Short: "Issue a bearer token signed with AUTH_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return errors.New("user id is required")
			}
			token, err := middlewares.SignToken(c.cfg.Auth.Secret, args[0], ttl)
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")

	return cmd
}
