package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/j0rgedev/football-analysis/internal/adapters/repository"
	"github.com/j0rgedev/football-analysis/internal/config"
)

func newSchemaCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the keyspace and tracking tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if c.cfg.Driver == config.DriverCassandra {
				if err := newCassandraOpener(c.cfg).EnsureSchema(ctx, c.cfg.Keyspace); err != nil {
					return err
				}
			} else {
				// Opening a sqlite store applies its schema.
				opener, err := newOpener(c.cfg)
				if err != nil {
					return err
				}
				s, err := opener.Open(ctx, c.cfg.Keyspace)
				if err != nil {
					return err
				}
				if err := repository.CloseQuietly(s); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "schema ready in keyspace %s\n", c.cfg.Keyspace)
			return err
		},
	}
}
