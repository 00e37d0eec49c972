package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// HealthResponse represents the response for the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ReadyResponse represents the response for the ready endpoint.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// CheckFunc reports whether a dependency is ready. A nil error means ready.
type CheckFunc func(ctx context.Context) error

const defaultCheckTimeout = 2 * time.Second

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	ready   bool
	checks  map[string]CheckFunc
	timeout time.Duration
	mu      sync.RWMutex
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		ready:   true,
		checks:  make(map[string]CheckFunc),
		timeout: defaultCheckTimeout,
	}
}

// Health handles the /health endpoint.
// This endpoint indicates if the service is running.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	writeJSON(w, http.StatusOK, response)
}

// Ready handles the /ready endpoint.
// This endpoint indicates if the service is ready to accept traffic.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	// Checks run without the lock so SetReady is never blocked by a slow dependency.
	h.mu.RLock()
	allReady := h.ready
	timeout := h.timeout
	pending := make(map[string]CheckFunc, len(h.checks))
	for name, check := range h.checks {
		pending[name] = check
	}
	h.mu.RUnlock()

	checks := make(map[string]string, len(pending))

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	for name, check := range pending {
		if err := check(ctx); err == nil {
			checks[name] = "ok"
		} else {
			checks[name] = "fail"
			allReady = false
		}
	}

	status := "ready"
	statusCode := http.StatusOK

	if !allReady {
		status = "not ready"
		statusCode = http.StatusServiceUnavailable
	}

	response := ReadyResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if len(checks) > 0 {
		response.Checks = checks
	}

	writeJSON(w, statusCode, response)
}

// SetReady sets the ready state.
func (h *HealthHandler) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

// IsReady returns the current ready state.
func (h *HealthHandler) IsReady() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ready
}

// SetCheckTimeout bounds how long all checks may run per request.
func (h *HealthHandler) SetCheckTimeout(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if d > 0 {
		h.timeout = d
	}
}

// AddCheck adds a dependency check.
func (h *HealthHandler) AddCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}
