package model

import (
	"errors"
	"time"
)

// ErrInvalidTracks marks tracking input whose shape cannot be ingested.
var ErrInvalidTracks = errors.New("invalid tracks")

// ReconcileState classifies what the store holds for a video before a run.
type ReconcileState int

// Reconciliation states.
const (
	NotExists ReconcileState = iota
	ExistsInPlayersOnly
	ExistsInBallOnly
	ExistsInBoth
)

// ClassifyCounts maps the two per-table row counts to a state.
func ClassifyCounts(players, balls int64) ReconcileState {
	switch {
	case players > 0 && balls > 0:
		return ExistsInBoth
	case players > 0:
		return ExistsInPlayersOnly
	case balls > 0:
		return ExistsInBallOnly
	default:
		return NotExists
	}
}

// String returns the telemetry label of the state.
func (s ReconcileState) String() string {
	switch s {
	case ExistsInBoth:
		return "exists_in_both"
	case ExistsInPlayersOnly:
		return "exists_in_players_only"
	case ExistsInBallOnly:
		return "exists_in_ball_only"
	case NotExists:
		return "not_exists"
	default:
		return "unknown"
	}
}

// MarshalText lets states appear as labels in JSON responses.
func (s ReconcileState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// NeedsIngest reports whether a fresh write should follow reconciliation.
func (s ReconcileState) NeedsIngest() bool {
	return s != ExistsInBoth
}

// IngestJob is one video queued for ingestion in service mode.
type IngestJob struct {
	VideoID    string
	Input      TrackingInput
	Source     string
	EnqueuedAt time.Time
}
