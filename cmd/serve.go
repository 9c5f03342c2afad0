package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/j0rgedev/football-analysis/internal/adapters/http/api"
	"github.com/j0rgedev/football-analysis/internal/adapters/http/swagger"
	"github.com/j0rgedev/football-analysis/internal/adapters/watch"
	service "github.com/j0rgedev/football-analysis/internal/app"
	"github.com/j0rgedev/football-analysis/pkg/logger"
	"github.com/j0rgedev/football-analysis/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 60 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		watchDir bool
		backfill bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ingestion HTTP API",
		Long: "Serve POST /videos/{id}/ingest and GET /videos/{id}. With --watch, tracking " +
			"files dropped into input_dir are ingested as well.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), c, watchDir, backfill)
		},
	}
	cmd.Flags().BoolVar(&watchDir, "watch", false, "ingest tracking files written to input_dir")
	cmd.Flags().BoolVar(&backfill, "backfill", false, "with --watch, submit files already in input_dir")
	return cmd
}

func runServe(ctx context.Context, c *cli, watchDir, backfill bool) error {
	cfg := c.cfg
	log := logger.Get()

	pipeline, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	svc := service.New(pipeline,
		service.WithLogger(logger.Named("service")),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		svc.Stop(stopCtx)
	}()

	go startServiceMetricsUpdater(ctx, svc)

	if watchDir {
		watchCtx, stopWatch := context.WithCancel(ctx)
		w := watch.New(cfg.InputDir, svc, watch.WithLogger(logger.Named("watch")))
		if err := w.Start(watchCtx); err != nil {
			stopWatch()
			return err
		}
		defer func() {
			stopWatch()
			w.Wait()
		}()
		if backfill {
			n, err := w.Backfill(watchCtx)
			if err != nil {
				return err
			}
			log.Info(ctx, "backfill submitted", logger.Int("videos", n))
		}
	}

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(mux)
	swagger.Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// startServiceMetricsUpdater refreshes service gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()
	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if inFlight, ok := stats["videosInFlight"].(int64); ok {
		metrics.UpdateVideosInFlight(inFlight)
	}
}
