package handlers

import (
	"net/http"

	"github.com/recordkit/recordkit/internal/services"
)

// PostsHandler serves the upstream posts payload.
type PostsHandler struct {
	service services.PostsService
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(svc services.PostsService) *PostsHandler {
	return &PostsHandler{service: svc}
}

// List handles GET /api/v1/posts requests. Any upstream failure is
// reported as 502 with the generic fetch error message.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	payload, err := h.service.Posts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
