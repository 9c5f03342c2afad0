package service

import (
	"errors"

	"github.com/j0rgedev/football-analysis/internal/domain/lease"
)

// Sentinel kinds for service errors.
var (
	ErrInvalidVideoID = errors.New("invalid video id")
	ErrNotStarted     = errors.New("service not started")
	ErrBackpressure   = errors.New("ingest queue full")
	ErrVideoInFlight  = lease.ErrVideoInFlight
	ErrJobDropped     = errors.New("job dropped before it ran: service stopped")
)
