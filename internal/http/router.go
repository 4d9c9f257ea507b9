package httpapi

import (
	"net/http"

	"github.com/go-chi/chi"
	chimiddleware "github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.StripSlashes)

	r.Get("/inventory/{productID}", app.getInventoryHandler)
	r.Patch("/inventory/{productID}", app.patchInventoryHandler)
	r.Get("/healthz", app.healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return WithRequestID(WithLogging(WithAPIKey(app.Cfg.APIKey, r)))
}
