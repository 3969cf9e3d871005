package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lmurayire12/gradebook/internal/campus"
	"github.com/lmurayire12/gradebook/internal/config"
	"github.com/lmurayire12/gradebook/internal/scoring"
	"github.com/lmurayire12/gradebook/internal/store"
)

func NewRouter(s store.Store, agg *scoring.Aggregator, bus campus.Client, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(240))

	students := NewStudentsHandler(s, agg, cfg.Scoring.TopLimit)
	projects := NewProjectsHandler(s)
	corrections := NewCorrectionsHandler(s, agg, bus, cfg.Scoring.RecomputeOnSubmit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/students", students.Create)
		r.Get("/students", students.List)
		r.Get("/students/top", students.Top)
		r.Get("/students/{id}", students.Get)
		r.Get("/students/{id}/corrections", students.Corrections)
		r.Post("/students/{id}/recompute", students.Recompute)

		r.Post("/projects", projects.Create)
		r.Get("/projects", projects.List)
		r.Get("/projects/{id}", projects.Get)

		r.Post("/corrections", corrections.Submit)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Post("/recompute", students.RecomputeAll)
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
