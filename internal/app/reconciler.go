package service

import (
	"context"
	"time"

	"github.com/j0rgedev/football-analysis/internal/adapters/repository"
	"github.com/j0rgedev/football-analysis/internal/domain/model"
	"github.com/j0rgedev/football-analysis/pkg/logger"
	"github.com/j0rgedev/football-analysis/pkg/metrics"
)

// Reconciler detects and repairs a half-written video before ingestion. It
// holds no state between calls.
type Reconciler struct {
	logger logger.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(l logger.Logger) *Reconciler {
	if l == nil {
		l = logger.Get().Named("reconciler")
	}
	return &Reconciler{logger: l}
}

// Reconcile counts both tables for videoID, classifies the result and deletes
// the rows of whichever table holds a partial write. After it returns, the
// video is either complete in both tables (ExistsInBoth) or absent from both.
func (r *Reconciler) Reconcile(ctx context.Context, s repository.Session, videoID string) (model.ReconcileState, error) {
	start := time.Now()
	defer func() { metrics.RecordReconcileDuration(float64(time.Since(start).Milliseconds())) }()

	players, err := count(ctx, s, repository.Players, videoID)
	if err != nil {
		return model.NotExists, err
	}
	balls, err := count(ctx, s, repository.Balls, videoID)
	if err != nil {
		return model.NotExists, err
	}

	state := model.ClassifyCounts(players, balls)
	metrics.RecordReconcileState(state.String())
	r.logger.Info(ctx, "video state",
		logger.String("video_id", videoID),
		logger.String("state", state.String()),
		logger.Int64("player_rows", players),
		logger.Int64("ball_rows", balls))

	switch state {
	case model.ExistsInPlayersOnly:
		err = r.purge(ctx, s, repository.Players, videoID)
	case model.ExistsInBallOnly:
		err = r.purge(ctx, s, repository.Balls, videoID)
	}
	return state, err
}

func (r *Reconciler) purge(ctx context.Context, s repository.Session, t repository.Table, videoID string) error {
	if _, err := s.Execute(ctx, t.Delete, videoID); err != nil {
		return err
	}
	metrics.RecordReconcileDelete(t.Name)
	r.logger.Warn(ctx, "removed partial write",
		logger.String("video_id", videoID),
		logger.String("table", t.Name))
	return nil
}

func count(ctx context.Context, s repository.Session, t repository.Table, videoID string) (int64, error) {
	rs, err := s.Execute(ctx, t.Count, videoID)
	if err != nil {
		return 0, err
	}
	n, err := rs.Int64("total")
	if err != nil {
		return 0, &repository.QueryError{Statement: t.Count, Err: err}
	}
	return n, nil
}
