// Command football-analysis loads per-frame player and ball tracking into
// Cassandra and serves an ingestion API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/j0rgedev/football-analysis/internal/config"
	"github.com/j0rgedev/football-analysis/pkg/logger"
)

// cli holds state shared by every subcommand.
type cli struct {
	cfg *config.Config

	configPath string
	driver     string
	keyspace   string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1) //nolint:gocritic // exitAfterDefer: stop is called above
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "football-analysis",
		Short:         "Football tracking ingestion",
		Long:          "Load per-frame player and ball tracking data into the jugadores and balon tables.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "YAML config file (overrides FOOTBALL_CONFIG)")
	flags.StringVar(&c.driver, "driver", "", "store driver: cassandra or sqlite")
	flags.StringVar(&c.keyspace, "keyspace", "", "keyspace holding the tracking tables")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newIngestCmd(c),
		newReconcileCmd(c),
		newSchemaCmd(c),
		newServeCmd(c),
	)
	return root
}

// setup loads configuration, applies flag overrides and initializes logging.
func (c *cli) setup(cmd *cobra.Command) error {
	if c.configPath != "" {
		if err := os.Setenv("FOOTBALL_CONFIG", c.configPath); err != nil {
			return err
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.driver != "" {
		cfg.Driver = c.driver
	}
	if c.keyspace != "" {
		cfg.Keyspace = c.keyspace
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Results go to stdout; logs stay on stderr.
	if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	c.cfg = cfg
	return nil
}
