package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AdeptTravel/vaultboot/internal/apidocs"
	"github.com/AdeptTravel/vaultboot/internal/middleware"
)

// APIPrefix is the global route prefix.
const APIPrefix = "/api"

// HealthBody is returned by the health endpoint.
const HealthBody = "Service is up"

// NewRouter builds the service router: security headers, request IDs,
// panic recovery, /api/health, and /metrics.
func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Security)

	r.Route(APIPrefix, func(api chi.Router) {
		api.Get("/health", health)
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Operations documents the routes NewRouter registers under APIPrefix.
func Operations() []apidocs.Operation {
	return []apidocs.Operation{{
		Method:      http.MethodGet,
		Path:        APIPrefix + "/health",
		Summary:     "Health check",
		Status:      http.StatusOK,
		Description: HealthBody,
	}}
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(HealthBody))
}
