package handlers

import (
	"net/http"
	"poi-route-service/internal/api/dto"
	"poi-route-service/internal/graph"
)

// POIHandler lists the attached points of interest.
type POIHandler struct {
	Graph *graph.Store
}

func (h *POIHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.NewListPOIsResponse(h.Graph.POIs()))
}
