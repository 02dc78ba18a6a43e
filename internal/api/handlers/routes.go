package handlers

import (
	"context"
	"net/http"
	"poi-route-service/internal/adapters/render"
	"poi-route-service/internal/api/dto"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/services"
	"strings"
)

type RouteHandler struct {
	Service *services.RouteService
	// Router answers the query; usually a CachedRouter or the Service itself.
	Router services.Router
}

func (h *RouteHandler) resolve(req dto.RouteRequest) (services.RouteRequest, error) {
	out := services.RouteRequest{
		Mode: strings.ToLower(strings.TrimSpace(req.Mode)),
		Hour: req.Hour,
	}
	if out.Mode == "" {
		out.Mode = services.ModeDirect
	}
	if err := services.ValidateMode(out.Mode); err != nil {
		return services.RouteRequest{}, err
	}

	var err error
	if out.Source, err = h.Service.Resolve(req.Source); err != nil {
		return services.RouteRequest{}, err
	}
	if out.Target, err = h.Service.Resolve(req.Target); err != nil {
		return services.RouteRequest{}, err
	}
	if strings.TrimSpace(req.Via) != "" {
		if out.Via, err = h.Service.Resolve(req.Via); err != nil {
			return services.RouteRequest{}, err
		}
	}
	if strings.TrimSpace(req.Avoid) != "" {
		if out.Avoid, err = h.Service.Resolve(req.Avoid); err != nil {
			return services.RouteRequest{}, err
		}
	}
	return out, nil
}

func (h *RouteHandler) compute(ctx context.Context, w http.ResponseWriter, r *http.Request) (services.RouteRequest, domain.Path, bool) {
	var req dto.RouteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_body", err.Error())
		return services.RouteRequest{}, domain.Path{}, false
	}

	sreq, err := h.resolve(req)
	if err != nil {
		writeServiceError(w, r, "route", err)
		return services.RouteRequest{}, domain.Path{}, false
	}

	p, err := h.Router.Route(ctx, sreq)
	if err != nil {
		writeServiceError(w, r, "route", err)
		return services.RouteRequest{}, domain.Path{}, false
	}
	return sreq, p, true
}

// Route answers a single route query in any of the four modes.
func (h *RouteHandler) Route(w http.ResponseWriter, r *http.Request) {
	sreq, p, ok := h.compute(r.Context(), w, r)
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(sreq.Mode, p))
}

// GeoJSON answers a route query with a FeatureCollection of the path and POIs.
func (h *RouteHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	_, p, ok := h.compute(r.Context(), w, r)
	if !ok {
		return
	}

	fc, err := render.RenderGeoJSON(h.Service.Graph(), p, false)
	if err != nil {
		writeServiceError(w, r, "render geojson", err)
		return
	}
	raw, err := fc.MarshalJSON()
	if err != nil {
		writeServiceError(w, r, "render geojson", err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
