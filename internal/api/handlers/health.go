package handlers

import (
	"net/http"
	"poi-route-service/internal/graph"
)

// HealthHandler reports liveness and the identity of the loaded graph.
type HealthHandler struct {
	Graph *graph.Store
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{
		"status":      "ok",
		"nodes":       h.Graph.Len(),
		"edges":       h.Graph.EdgeCount(),
		"fingerprint": h.Graph.Fingerprint(),
	}
	writeJSON(w, r, http.StatusOK, res)
}
