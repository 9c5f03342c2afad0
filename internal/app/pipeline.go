package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/j0rgedev/football-analysis/internal/adapters/repository"
	"github.com/j0rgedev/football-analysis/internal/domain/model"
	"github.com/j0rgedev/football-analysis/internal/domain/transform"
	"github.com/j0rgedev/football-analysis/pkg/logger"
	"github.com/j0rgedev/football-analysis/pkg/metrics"
)

// DefaultKeyspace is used when no keyspace option is given.
const DefaultKeyspace = "analitica_deportes"

// Timings holds per-stage wall time of one ingestion.
type Timings struct {
	Reconcile    time.Duration
	Transform    time.Duration
	WritePlayers time.Duration
	WriteBalls   time.Duration
	Total        time.Duration
}

// MarshalJSON renders the durations in milliseconds.
func (t Timings) MarshalJSON() ([]byte, error) {
	ms := func(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
	return json.Marshal(map[string]float64{
		"reconcile_ms":     ms(t.Reconcile),
		"transform_ms":     ms(t.Transform),
		"write_players_ms": ms(t.WritePlayers),
		"write_balls_ms":   ms(t.WriteBalls),
		"total_ms":         ms(t.Total),
	})
}

// Result summarizes one ingestion.
type Result struct {
	VideoID        string               `json:"video_id"`
	State          model.ReconcileState `json:"state"`
	Skipped        bool                 `json:"skipped"`
	PlayerRows     int                  `json:"player_rows"`
	BallRows       int                  `json:"ball_rows"`
	ColorFallbacks int                  `json:"color_fallbacks"`
	Timings        Timings              `json:"timings"`
}

// Pipeline runs one video through open, reconcile, transform, write players,
// write balls and close.
type Pipeline struct {
	opener      repository.Opener
	keyspace    string
	writer      *repository.Writer
	transformer *transform.Transformer
	reconciler  *Reconciler
	logger      logger.Logger
}

// NewPipeline creates a Pipeline that opens sessions with opener.
func NewPipeline(opener repository.Opener, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		opener:   opener,
		keyspace: DefaultKeyspace,
		logger:   logger.Get().Named("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.writer == nil {
		p.writer = repository.NewWriter(repository.WithLogger(p.logger.Named("writer")))
	}
	if p.transformer == nil {
		p.transformer = transform.New()
	}
	if p.reconciler == nil {
		p.reconciler = NewReconciler(p.logger.Named("reconciler"))
	}
	return p
}

// Keyspace returns the keyspace sessions are opened for.
func (p *Pipeline) Keyspace() string { return p.keyspace }

// Ingest persists tracks for videoID. A nil control sequence is derived from
// the tracks. A video already complete in both tables is skipped. The session
// is closed on every return path.
func (p *Pipeline) Ingest(ctx context.Context, tracks model.Tracks, control []*model.TeamID, videoID string) (res Result, err error) {
	start := time.Now()
	res.VideoID = videoID
	defer func() {
		res.Timings.Total = time.Since(start)
		metrics.RecordIngest(outcome(res, err), float64(res.Timings.Total.Milliseconds()))
	}()

	if strings.TrimSpace(videoID) == "" {
		return res, ErrInvalidVideoID
	}
	if err := tracks.Validate(); err != nil {
		return res, fmt.Errorf("video %s: %w", videoID, err)
	}

	sess, err := p.opener.Open(ctx, p.keyspace)
	if err != nil {
		return res, fmt.Errorf("video %s: %w", videoID, err)
	}
	defer func() {
		if cerr := repository.CloseQuietly(sess); cerr != nil {
			p.logger.Warn(ctx, "session close failed", logger.String("video_id", videoID), logger.Error(cerr))
		}
	}()

	stage := time.Now()
	res.State, err = p.reconciler.Reconcile(ctx, sess, videoID)
	res.Timings.Reconcile = time.Since(stage)
	if err != nil {
		return res, fmt.Errorf("video %s: reconcile: %w", videoID, err)
	}
	if !res.State.NeedsIngest() {
		res.Skipped = true
		p.logger.Info(ctx, "video already ingested, skipping", logger.String("video_id", videoID))
		return res, nil
	}

	stage = time.Now()
	if control == nil {
		control = transform.TeamControl(tracks)
	}
	rows := p.transformer.Transform(tracks, control, videoID)
	res.Timings.Transform = time.Since(stage)
	res.ColorFallbacks = len(rows.ColorFallbacks)
	if res.ColorFallbacks > 0 {
		metrics.RecordColorFallbacks(res.ColorFallbacks)
		first := rows.ColorFallbacks[0]
		p.logger.Warn(ctx, "team color fell back to N/A",
			logger.String("video_id", videoID),
			logger.Int("rows", res.ColorFallbacks),
			logger.Int("first_player_id", first.PlayerID),
			logger.Int("first_frame", first.FrameNumber),
			logger.String("reason", first.Reason))
	}

	stage = time.Now()
	res.PlayerRows, err = p.writer.WriteAll(ctx, sess, repository.Players, playerValues(rows.Players))
	res.Timings.WritePlayers = time.Since(stage)
	if err != nil {
		return res, fmt.Errorf("video %s: %w", videoID, err)
	}

	stage = time.Now()
	res.BallRows, err = p.writer.WriteAll(ctx, sess, repository.Balls, ballValues(rows.Balls))
	res.Timings.WriteBalls = time.Since(stage)
	if err != nil {
		return res, fmt.Errorf("video %s: %w", videoID, err)
	}

	p.logger.Info(ctx, "video ingested",
		logger.String("video_id", videoID),
		logger.String("state", res.State.String()),
		logger.Int("player_rows", res.PlayerRows),
		logger.Int("ball_rows", res.BallRows),
		logger.Duration("reconcile", res.Timings.Reconcile),
		logger.Duration("transform", res.Timings.Transform),
		logger.Duration("write_players", res.Timings.WritePlayers),
		logger.Duration("write_balls", res.Timings.WriteBalls))
	return res, nil
}

// Reconcile repairs videoID without ingesting anything.
func (p *Pipeline) Reconcile(ctx context.Context, videoID string) (model.ReconcileState, error) {
	if strings.TrimSpace(videoID) == "" {
		return model.NotExists, ErrInvalidVideoID
	}
	sess, err := p.opener.Open(ctx, p.keyspace)
	if err != nil {
		return model.NotExists, err
	}
	defer func() { _ = repository.CloseQuietly(sess) }()

	return p.reconciler.Reconcile(ctx, sess, videoID)
}

func outcome(res Result, err error) string {
	var cerr *repository.ConnectionError
	var werr *repository.WriteError
	switch {
	case err == nil && res.Skipped:
		return "skipped"
	case err == nil:
		return "ingested"
	case errors.As(err, &cerr):
		return "connection_error"
	case errors.As(err, &werr):
		return "write_error"
	case errors.Is(err, repository.ErrQuery):
		return "query_error"
	default:
		return "invalid"
	}
}

func playerValues(recs []model.PlayerFrameRecord) [][]any {
	out := make([][]any, len(recs))
	for i := range recs {
		out[i] = recs[i].Values()
	}
	return out
}

func ballValues(recs []model.BallFrameRecord) [][]any {
	out := make([][]any, len(recs))
	for i := range recs {
		out[i] = recs[i].Values()
	}
	return out
}
