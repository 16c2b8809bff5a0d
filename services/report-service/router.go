package main

import (
	_ "embed"
	"net/http"

	"animal-safety-hub/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.yaml
var openapiYAML []byte

func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.LoggerMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", a.handleHealth)
	r.Handle("/metrics", middleware.GetMetricsHandler())

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.Write(openapiYAML)
	})
	r.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/api/openapi.yaml"),
	))

	r.Route("/api/reports", func(pub chi.Router) {
		pub.Post("/", a.handleSubmitReport)
		pub.Get("/{id}/status", a.handleReportStatus)
		if a.evidence != nil {
			pub.Post("/evidence", a.handlePresignEvidence)
		}
	})

	r.Route("/api/admin/reports", func(adm chi.Router) {
		if !a.cfg.AuthDisabled {
			adm.Use(middleware.AuthMiddleware)
			adm.Use(middleware.RequireRole("admin", "moderator"))
		}

		adm.Get("/", a.handleListReports)
		adm.Get("/statistics", a.handleStatistics)
		adm.Get("/urgent", a.handleUrgentReports)
		adm.Get("/{id}", a.handleGetReport)
		adm.Patch("/{id}/status", a.handleUpdateStatus)
		adm.Post("/{id}/notes", a.handleAddNote)
		adm.Delete("/{id}", a.handleDeleteReport)
	})

	return r
}
