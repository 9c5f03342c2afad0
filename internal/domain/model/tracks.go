// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// BallEntityID is the fixed key under which each ball frame stores its observation.
const BallEntityID = 1

// TeamID is a team label as produced upstream. It decodes from either a JSON
// number (1) or a JSON string ("1") and is always stored as a string.
type TeamID string

// UnmarshalJSON accepts numbers and strings.
func (t *TeamID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = TeamID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("team must be a number or string: %w", err)
	}
	*t = TeamID(n.String())
	return nil
}

// Index parses the team as a small integer.
func (t TeamID) Index() (int, error) {
	return strconv.Atoi(string(t))
}

// ColorVectors is a team's list of RGB vectors. It decodes from either a list
// of vectors ([[r,g,b], ...]) or a single vector ([r,g,b]).
type ColorVectors [][]float64

// UnmarshalJSON accepts a single vector or a list of vectors.
func (c *ColorVectors) UnmarshalJSON(b []byte) error {
	var many [][]float64
	if err := json.Unmarshal(b, &many); err == nil {
		*c = many
		return nil
	}
	var one []float64
	if err := json.Unmarshal(b, &one); err != nil {
		return fmt.Errorf("team_color must be [r,g,b] or [[r,g,b],...]: %w", err)
	}
	*c = ColorVectors{one}
	return nil
}

// PlayerTrack is one player's state in one frame. Optional fields are nil
// when the upstream stage produced nothing for that frame.
type PlayerTrack struct {
	PositionTransformed []float64    `json:"position_transformed,omitempty"`
	Team                *TeamID      `json:"team,omitempty"`
	TeamColor           ColorVectors `json:"team_color,omitempty"`
	Speed               *float64     `json:"speed,omitempty"`
	Distance            *float64     `json:"distance,omitempty"`
	HasBall             *bool        `json:"has_ball,omitempty"`
}

// BallTrack is the ball observation in one frame.
type BallTrack struct {
	BBox           []float64 `json:"bbox,omitempty"`
	AssignedPlayer *int      `json:"assigned_player,omitempty"`
}

// Tracks is the per-frame tracking structure handed over by the upstream
// pipeline. Players[i] maps player id to its track in frame i; Ball[i] maps
// the entity index (BallEntityID) to the ball observation in frame i.
type Tracks struct {
	Players []map[int]PlayerTrack `json:"players"`
	Ball    []map[int]BallTrack   `json:"ball"`
}

// TrackingInput is the document exchanged with the upstream pipeline.
type TrackingInput struct {
	Tracks          Tracks    `json:"tracks"`
	TeamBallControl []*TeamID `json:"team_ball_control,omitempty"`
}

// Validate checks the shape of the collaborator input. It does not judge
// semantic correctness of positions or boxes.
func (t Tracks) Validate() error {
	for frame, players := range t.Players {
		for id, p := range players {
			if id < 0 {
				return fmt.Errorf("%w: frame %d: negative player id %d", ErrInvalidTracks, frame, id)
			}
			if n := len(p.PositionTransformed); n != 0 && n != 2 {
				return fmt.Errorf("%w: frame %d player %d: position_transformed has %d values", ErrInvalidTracks, frame, id, n)
			}
			if err := finite(p.PositionTransformed...); err != nil {
				return fmt.Errorf("%w: frame %d player %d: position_transformed: %w", ErrInvalidTracks, frame, id, err)
			}
		}
	}
	for frame, balls := range t.Ball {
		b, ok := balls[BallEntityID]
		if !ok {
			continue
		}
		if n := len(b.BBox); n != 0 && n != 4 {
			return fmt.Errorf("%w: frame %d: ball bbox has %d values", ErrInvalidTracks, frame, n)
		}
		if err := finite(b.BBox...); err != nil {
			return fmt.Errorf("%w: frame %d: ball bbox: %w", ErrInvalidTracks, frame, err)
		}
	}
	return nil
}

func finite(vs ...float64) error {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value %v", v)
		}
	}
	return nil
}
