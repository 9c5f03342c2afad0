package model

import "github.com/google/uuid"

// Sentinel values stored when a field cannot be resolved.
const (
	UnknownTeam      = "0"
	UnknownTeamColor = "N/A"
)

// PlayerFrameRecord is one row of the jugadores table.
type PlayerFrameRecord struct {
	PlayerID         int
	VideoID          string
	FrameNumber      int
	Team             string
	TeamColorName    string
	PositionX        *float64
	PositionY        *float64
	Speed            float64
	DistanceTraveled float64
	HasBall          bool
}

// Values returns the bind values in jugadores insert column order.
func (r *PlayerFrameRecord) Values() []any {
	return []any{
		r.PlayerID,
		r.VideoID,
		r.FrameNumber,
		r.Team,
		r.TeamColorName,
		r.PositionX,
		r.PositionY,
		r.Speed,
		r.DistanceTraveled,
		r.HasBall,
	}
}

// BallFrameRecord is one row of the balon table.
type BallFrameRecord struct {
	BallID           uuid.UUID
	VideoID          string
	FrameNumber      int
	PositionX        *float64
	PositionY        *float64
	AssignedPlayerID *int
	TeamInControl    *string
}

// Values returns the bind values in balon insert column order. The id is
// bound in its canonical string form, which both drivers accept for a uuid
// column.
func (r *BallFrameRecord) Values() []any {
	return []any{
		r.BallID.String(),
		r.VideoID,
		r.FrameNumber,
		r.PositionX,
		r.PositionY,
		r.AssignedPlayerID,
		r.TeamInControl,
	}
}
