package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/segyhp/credit-simulator/pkg/response"
)

// NewRouter wires the HTTP routes of the simulator
func NewRouter(simulations *SimulationHandler, health *HealthHandler, logger *zap.Logger) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	router.Use(response.LoggingMiddleware(logger), response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", health.Ready).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/simulations/preview", simulations.Preview).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/simulations", simulations.CreateSimulation).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/simulations/{simulationId}", simulations.GetSimulation).Methods(http.MethodGet)
	api.HandleFunc("/simulations/{simulationId}/schedule", simulations.GetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/users/{userId}/simulations", simulations.ListSimulations).Methods(http.MethodGet)

	return router
}
