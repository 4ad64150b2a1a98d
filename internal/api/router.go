package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"fcigcli/internal/config"
	"fcigcli/internal/infrastructure"
	custommiddleware "fcigcli/internal/middleware"
)

// NewRouter builds the HTTP router with the standard middleware chain:
// RequestID, RealIP, metrics, Logger, Recoverer, then rate limiting.
func NewRouter(cfg config.ServerConfig, handler *Handler, logger *slog.Logger, metricsHandler http.Handler, bm *infrastructure.BusinessMetrics) chi.Router {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.Metrics(bm))
	r.Use(custommiddleware.StructuredLogger(logger))
	r.Use(custommiddleware.Recoverer(logger))
	r.Use(custommiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger).Handler)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(chimiddleware.Timeout(cfg.ReadTimeout))

		r.Get("/health", handler.Health)
		r.Get("/index/{window}", handler.GetIndex)
	})

	// Prometheus scrape endpoint stays outside the middleware group.
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	return r
}
