package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	service "github.com/j0rgedev/football-analysis/internal/app"
	"github.com/j0rgedev/football-analysis/internal/domain/model"
)

// IngestHandler accepts tracking documents for ingestion.
type IngestHandler struct {
	deps Dependencies
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(deps Dependencies) *IngestHandler {
	return &IngestHandler{deps: deps}
}

// HandleIngest handles POST /videos/{id}/ingest. The body is a tracking
// document; shape errors are rejected before anything is queued.
func (h *IngestHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	const op = "api.ingest"

	videoID := strings.TrimSpace(r.PathValue("id"))
	if videoID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, service.ErrInvalidVideoID))
		return
	}

	var in model.TrackingInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if err := in.Tracks.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_tracks", wrapKind(op, ErrBadRequest, err))
		return
	}

	err := h.deps.Submit(r.Context(), model.IngestJob{
		VideoID:    videoID,
		Input:      in,
		Source:     "http",
		EnqueuedAt: time.Now(),
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", VideoID: videoID})
	case errors.Is(err, service.ErrVideoInFlight):
		writeError(w, http.StatusConflict, "in_flight", wrapKind(op, ErrConflict, nil))
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", wrapKind(op, ErrBackpressure, nil))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", wrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
