package main

import (
	"fmt"

	"github.com/j0rgedev/football-analysis/internal/adapters/repository"
	service "github.com/j0rgedev/football-analysis/internal/app"
	"github.com/j0rgedev/football-analysis/internal/config"
	"github.com/j0rgedev/football-analysis/pkg/logger"
)

// newOpener builds the session opener for the configured driver.
func newOpener(cfg *config.Config) (repository.Opener, error) {
	switch cfg.Driver {
	case config.DriverCassandra:
		return newCassandraOpener(cfg), nil
	case config.DriverSQLite:
		return repository.NewSQLiteOpener(cfg.SQLiteDir), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

func newCassandraOpener(cfg *config.Config) *repository.CassandraOpener {
	o := repository.NewCassandraOpener(cfg.Hosts...)
	o.Consistency = cfg.Consistency
	o.Timeout = cfg.Timeout
	o.NumRetries = cfg.NumRetries
	o.CreateSchema = cfg.CreateSchema
	o.ReplicationFactor = cfg.ReplicationFactor
	return o
}

// newPipeline builds the ingestion pipeline for cfg.
func newPipeline(cfg *config.Config) (*service.Pipeline, error) {
	opener, err := newOpener(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.Named("pipeline")
	return service.NewPipeline(opener,
		service.WithKeyspace(cfg.Keyspace),
		service.WithPipelineLogger(log),
		service.WithWriter(repository.NewWriter(
			repository.WithBatchSize(cfg.BatchSize),
			repository.WithLogger(log.Named("writer")),
		)),
	), nil
}
