// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"

	"github.com/gothink/gothink/pkg/api/response"
	"github.com/gothink/gothink/pkg/reasoning"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	hub *reasoning.ReasoningHub
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(hub *reasoning.ReasoningHub) *HealthHandler {
	return &HealthHandler{
		hub: hub,
	}
}

// Health handles the /health endpoint (liveness probe).
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.hub.IsHealthy() {
		response.JSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	} else {
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
		})
	}
}

// Ready handles the /ready endpoint (readiness probe).
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.hub.IsReady() {
		response.JSON(w, http.StatusOK, map[string]bool{
			"ready": true,
		})
	} else {
		response.JSON(w, http.StatusServiceUnavailable, map[string]bool{
			"ready": false,
		})
	}
}

// Status handles the /status endpoint (detailed status).
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.hub.GetStatus()
	response.JSON(w, http.StatusOK, status)
}
