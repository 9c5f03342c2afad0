package service_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/j0rgedev/football-analysis/internal/adapters/repository"
	"github.com/j0rgedev/football-analysis/internal/domain/model"
	"github.com/j0rgedev/football-analysis/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const keyspace = "analitica_deportes"

// trackingOpener wraps a real opener, counts closes and can fail one statement.
type trackingOpener struct {
	inner     repository.Opener
	opens     atomic.Int32
	closes    atomic.Int32
	failBatch string
	gate      chan struct{}
}

func newTrackingOpener(t *testing.T) *trackingOpener {
	return &trackingOpener{inner: repository.NewSQLiteOpener(t.TempDir())}
}

func (o *trackingOpener) Open(ctx context.Context, ks string) (repository.Session, error) {
	if o.gate != nil {
		<-o.gate
	}
	s, err := o.inner.Open(ctx, ks)
	if err != nil {
		return nil, err
	}
	o.opens.Add(1)
	return &trackingSession{Session: s, o: o}, nil
}

type trackingSession struct {
	repository.Session
	o *trackingOpener
}

func (s *trackingSession) ExecuteBatch(ctx context.Context, stmt string, rows [][]any) error {
	if s.o.failBatch == stmt {
		return &repository.QueryError{Statement: stmt, Err: context.DeadlineExceeded}
	}
	return s.Session.ExecuteBatch(ctx, stmt, rows)
}

func (s *trackingSession) Close() error {
	s.o.closes.Add(1)
	return s.Session.Close()
}

// failingOpener never connects.
type failingOpener struct{}

func (failingOpener) Open(_ context.Context, ks string) (repository.Session, error) {
	return nil, &repository.ConnectionError{Keyspace: ks, Err: context.DeadlineExceeded}
}

// rowCounts reads both table counts for videoID through a fresh session.
func rowCounts(t *testing.T, o repository.Opener, videoID string) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	s, err := o.Open(ctx, keyspace)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = s.Close() }()

	var out [2]int64
	for i, stmt := range []string{repository.CountPlayers, repository.CountBalls} {
		rs, err := s.Execute(ctx, stmt, videoID)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if out[i], err = rs.Int64("total"); err != nil {
			t.Fatalf("count: %v", err)
		}
	}
	return out[0], out[1]
}

func team(s string) *model.TeamID {
	id := model.TeamID(s)
	return &id
}

func intPtr(v int) *int { return &v }

// scenarioTracks is two frames with player 7 and a ball only in frame 0.
func scenarioTracks() model.Tracks {
	p := model.PlayerTrack{
		PositionTransformed: []float64{1.0, 2.0},
		Team:                team("1"),
		TeamColor:           model.ColorVectors{{255, 0, 0}},
	}
	return model.Tracks{
		Players: []map[int]model.PlayerTrack{{7: p}, {7: p}},
		Ball: []map[int]model.BallTrack{
			{model.BallEntityID: {BBox: []float64{10, 20, 30, 40}, AssignedPlayer: intPtr(7)}},
		},
	}
}

// largeTracks has frames*players player rows and one ball row per frame.
func largeTracks(frames, players int) model.Tracks {
	tr := model.Tracks{
		Players: make([]map[int]model.PlayerTrack, frames),
		Ball:    make([]map[int]model.BallTrack, frames),
	}
	for f := 0; f < frames; f++ {
		tr.Players[f] = make(map[int]model.PlayerTrack, players)
		for p := 1; p <= players; p++ {
			tr.Players[f][p] = model.PlayerTrack{Team: team("1"), TeamColor: model.ColorVectors{{0, 0, 255}}}
		}
		tr.Ball[f] = map[int]model.BallTrack{model.BallEntityID: {BBox: []float64{1, 2, 3, 4}}}
	}
	return tr
}
