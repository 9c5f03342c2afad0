// Package transform flattens tracking input into store rows.
package transform

import (
	"sort"

	"github.com/google/uuid"
	"github.com/j0rgedev/football-analysis/internal/domain/colorname"
	"github.com/j0rgedev/football-analysis/internal/domain/model"
)

// ColorFallback records a player row whose team color could not be named.
type ColorFallback struct {
	PlayerID    int
	FrameNumber int
	Team        string
	Reason      string
}

// Result holds the rows produced for one video.
type Result struct {
	Players        []model.PlayerFrameRecord
	Balls          []model.BallFrameRecord
	ColorFallbacks []ColorFallback
}

// Transformer maps tracks to rows. It keeps no state between calls.
type Transformer struct {
	newID func() uuid.UUID
}

// New creates a Transformer.
func New(opts ...Option) *Transformer {
	t := &Transformer{newID: uuid.New}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform produces player rows in frame order (player id ascending within a
// frame) and one ball row per entry of tracks.Ball.
func (t *Transformer) Transform(tracks model.Tracks, control []*model.TeamID, videoID string) Result {
	var res Result

	for frame, players := range tracks.Players {
		ids := make([]int, 0, len(players))
		for id := range players {
			ids = append(ids, id)
		}
		sort.Ints(ids)

		for _, id := range ids {
			rec, fallback := playerRecord(players[id], id, frame, videoID)
			res.Players = append(res.Players, rec)
			if fallback != "" {
				res.ColorFallbacks = append(res.ColorFallbacks, ColorFallback{
					PlayerID:    id,
					FrameNumber: frame,
					Team:        rec.Team,
					Reason:      fallback,
				})
			}
		}
	}

	var prev *string
	for frame, balls := range tracks.Ball {
		b := balls[model.BallEntityID]
		rec := model.BallFrameRecord{
			BallID:      t.newID(),
			VideoID:     videoID,
			FrameNumber: frame,
		}
		if b.AssignedPlayer != nil {
			a := *b.AssignedPlayer
			rec.AssignedPlayerID = &a
		}
		if len(b.BBox) >= 2 {
			x, y := b.BBox[0], b.BBox[1]
			rec.PositionX, rec.PositionY = &x, &y
		}

		// Gaps inside the sequence repeat the previous value; frames past
		// its end have no control value at all.
		if frame < len(control) {
			if control[frame] != nil {
				s := string(*control[frame])
				prev = &s
			}
			rec.TeamInControl = prev
		}

		res.Balls = append(res.Balls, rec)
	}

	return res
}

func playerRecord(p model.PlayerTrack, id, frame int, videoID string) (model.PlayerFrameRecord, string) {
	rec := model.PlayerFrameRecord{
		PlayerID:      id,
		VideoID:       videoID,
		FrameNumber:   frame,
		Team:          model.UnknownTeam,
		TeamColorName: model.UnknownTeamColor,
	}
	if len(p.PositionTransformed) >= 2 {
		x, y := p.PositionTransformed[0], p.PositionTransformed[1]
		rec.PositionX, rec.PositionY = &x, &y
	}
	if p.Team != nil {
		rec.Team = string(*p.Team)
	}
	if p.Speed != nil {
		rec.Speed = *p.Speed
	}
	if p.Distance != nil {
		rec.DistanceTraveled = *p.Distance
	}
	if p.HasBall != nil {
		rec.HasBall = *p.HasBall
	}

	name, reason := teamColor(rec.Team, p.TeamColor)
	if reason == "" {
		rec.TeamColorName = name
	}
	return rec, reason
}

func teamColor(team string, colors model.ColorVectors) (string, string) {
	if len(colors) == 0 {
		return "", "no team colors"
	}
	idx, err := model.TeamID(team).Index()
	if err != nil {
		return "", "team is not an integer"
	}
	if idx < 1 || idx > len(colors) {
		return "", "team index out of range"
	}
	c, ok := colorname.FromVector(colors[idx-1])
	if !ok {
		return "", "invalid color vector"
	}
	return colorname.NameFor(c), ""
}

// TeamControl derives the per-frame team in control of the ball from tracks:
// the team of the assigned player when known, otherwise the previous frame's
// value. Frames before the first resolved value are nil.
func TeamControl(tracks model.Tracks) []*model.TeamID {
	out := make([]*model.TeamID, len(tracks.Players))
	var prev *model.TeamID
	for frame, players := range tracks.Players {
		if frame < len(tracks.Ball) {
			b := tracks.Ball[frame][model.BallEntityID]
			if b.AssignedPlayer != nil {
				if p, ok := players[*b.AssignedPlayer]; ok && p.Team != nil {
					team := *p.Team
					prev = &team
				}
			}
		}
		out[frame] = prev
	}
	return out
}
