package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/utagms/internal/analysis"
	"github.com/MikeSquared-Agency/utagms/internal/hermes"
	"github.com/MikeSquared-Agency/utagms/internal/store"
)

func NewRouter(s store.Store, h hermes.Client, svc *analysis.Service, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	problems := NewProblemsHandler(s, h, logger)
	analyses := NewAnalysesHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/problems", problems.Create)
		r.Get("/problems", problems.List)
		r.Get("/problems/{id}", problems.Get)
		r.Post("/problems/{id}/{kind}", analyses.Stored)

		r.Post("/analyses/{kind}", analyses.Inline)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Delete("/problems/{id}", problems.Delete)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
