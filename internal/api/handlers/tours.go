package handlers

import (
	"net/http"
	"poi-route-service/internal/api/dto"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/services"
)

// maxTourStops bounds the size of one tour request.
const maxTourStops = 25

type TourHandler struct {
	Service     *services.RouteService
	Concurrency int
}

// Plan orders the requested stops with a greedy nearest-neighbor heuristic.
func (h *TourHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.TourRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if len(req.Stops) > maxTourStops {
		writeError(w, r, http.StatusBadRequest, "invalid_parameter", "stops must list at most 25 nodes")
		return
	}

	start, err := h.Service.Resolve(req.Start)
	if err != nil {
		writeServiceError(w, r, "tour", err)
		return
	}
	stops := make([]domain.NodeID, 0, len(req.Stops))
	for _, ref := range req.Stops {
		id, err := h.Service.Resolve(ref)
		if err != nil {
			writeServiceError(w, r, "tour", err)
			return
		}
		stops = append(stops, id)
	}

	plan, err := services.PlanTour(r.Context(), h.Service, start, stops, req.ReturnToStart, h.Concurrency)
	if err != nil {
		writeServiceError(w, r, "tour", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewTourResponse(plan))
}
