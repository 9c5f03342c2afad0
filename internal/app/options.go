package service

import (
	"github.com/j0rgedev/football-analysis/internal/adapters/repository"
	"github.com/j0rgedev/football-analysis/internal/domain/transform"
	"github.com/j0rgedev/football-analysis/pkg/logger"
)

// PipelineOption applies a configuration option to the Pipeline.
type PipelineOption func(*Pipeline)

// WithKeyspace sets the keyspace sessions are opened for.
func WithKeyspace(keyspace string) PipelineOption {
	return func(p *Pipeline) {
		if keyspace != "" {
			p.keyspace = keyspace
		}
	}
}

// WithWriter replaces the batched writer.
func WithWriter(w *repository.Writer) PipelineOption {
	return func(p *Pipeline) {
		if w != nil {
			p.writer = w
		}
	}
}

// WithTransformer replaces the record transformer.
func WithTransformer(t *transform.Transformer) PipelineOption {
	return func(p *Pipeline) {
		if t != nil {
			p.transformer = t
		}
	}
}

// WithPipelineLogger sets the pipeline's logger.
func WithPipelineLogger(l logger.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
