package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hos-trip-service/internal/api/handlers"
	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.TripRepository, provider ports.DistanceProvider, rules domain.HOSRules) http.Handler {
	mux := http.NewServeMux()

	tripHandler := &handlers.TripHandler{
		Repo:     repo,
		Provider: provider,
		Rules:    rules,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/trips/calculate", tripHandler.Calculate)
	mux.HandleFunc("/trips", tripHandler.List)
	mux.HandleFunc("/trips/{id}", tripHandler.Item)
	mux.HandleFunc("/trips/{id}/csv", tripHandler.ExportCSV)

	return loggingMiddleware(mux)
}
