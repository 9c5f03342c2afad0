// Package api exposes the ingestion service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/j0rgedev/football-analysis/internal/app"
	"github.com/j0rgedev/football-analysis/internal/domain/model"
)

// maxBodyBytes bounds a tracking document upload.
const maxBodyBytes = 512 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Submit queues a video for ingestion.
	Submit(ctx context.Context, job model.IngestJob) error
	// Status returns the last known status of a video.
	Status(videoID string) (VideoStatus, bool)
}

// VideoStatus mirrors the status shape returned by the service.
type VideoStatus = service.VideoStatus

// Server wires HTTP routes for the ingestion API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	ingestHandler *IngestHandler
	videosHandler *VideosHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		ingestHandler: NewIngestHandler(deps),
		videosHandler: NewVideosHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /videos/{id}/ingest", MetricsMiddleware(s.ingestHandler.HandleIngest, "ingest"))
	mux.HandleFunc("GET /videos/{id}", MetricsMiddleware(s.videosHandler.HandleGetVideo, "video"))
}

type ackResponse struct {
	Status  string `json:"status"`
	VideoID string `json:"video_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
