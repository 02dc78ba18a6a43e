package api

import (
	"net/http"
	"poi-route-service/internal/api/handlers"
	"poi-route-service/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Deps struct {
	Service *services.RouteService
	// Router answers /routes queries. Defaults to Service.
	Router            services.Router
	MatrixConcurrency int
	Logger            *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	if d.Router == nil {
		d.Router = d.Service
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	health := &handlers.HealthHandler{Graph: d.Service.Graph()}
	pois := &handlers.POIHandler{Graph: d.Service.Graph()}
	routes := &handlers.RouteHandler{Service: d.Service, Router: d.Router}
	matrix := &handlers.MatrixHandler{Service: d.Service, Concurrency: d.MatrixConcurrency}
	tours := &handlers.TourHandler{Service: d.Service, Concurrency: d.MatrixConcurrency}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	r.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	r.HandleFunc("/pois", pois.List).Methods(http.MethodGet)
	r.HandleFunc("/routes", routes.Route).Methods(http.MethodPost)
	r.HandleFunc("/routes/geojson", routes.GeoJSON).Methods(http.MethodPost)
	r.HandleFunc("/matrix", matrix.Matrix).Methods(http.MethodPost)
	r.HandleFunc("/tours", tours.Plan).Methods(http.MethodPost)

	return requestIDMiddleware(loggingMiddleware(r, d.Logger))
}
