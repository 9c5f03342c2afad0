package api

import (
	"net/http"
	"strings"
)

// VideosHandler serves per-video status.
type VideosHandler struct {
	deps Dependencies
}

// NewVideosHandler creates a new videos handler.
func NewVideosHandler(deps Dependencies) *VideosHandler {
	return &VideosHandler{deps: deps}
}

// HandleGetVideo handles GET /videos/{id}.
func (h *VideosHandler) HandleGetVideo(w http.ResponseWriter, r *http.Request) {
	videoID := strings.TrimSpace(r.PathValue("id"))
	if videoID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	st, ok := h.deps.Status(videoID)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", wrapKind("api.get_video", ErrNotFound, nil))
		return
	}
	writeJSON(w, http.StatusOK, st)
}
