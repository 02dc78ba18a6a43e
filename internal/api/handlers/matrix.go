package handlers

import (
	"net/http"
	"poi-route-service/internal/api/dto"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/services"
)

// maxMatrixIDs bounds the quadratic work one request can ask for.
const maxMatrixIDs = 50

type MatrixHandler struct {
	Service     *services.RouteService
	Concurrency int
}

func (h *MatrixHandler) Matrix(w http.ResponseWriter, r *http.Request) {
	var req dto.MatrixRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if len(req.IDs) == 0 || len(req.IDs) > maxMatrixIDs {
		writeError(w, r, http.StatusBadRequest, "invalid_parameter", "ids must list between 1 and 50 nodes")
		return
	}

	ids := make([]domain.NodeID, 0, len(req.IDs))
	for _, ref := range req.IDs {
		id, err := h.Service.Resolve(ref)
		if err != nil {
			writeServiceError(w, r, "matrix", err)
			return
		}
		ids = append(ids, id)
	}

	m, err := services.CostMatrix(r.Context(), h.Service, ids, h.Concurrency)
	if err != nil {
		writeServiceError(w, r, "matrix", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewMatrixResponse(m))
}
