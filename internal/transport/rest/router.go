package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/mazta/kpi-dashboard/internal/auth"
	"github.com/mazta/kpi-dashboard/internal/comment"
	"github.com/mazta/kpi-dashboard/internal/document"
	"github.com/mazta/kpi-dashboard/internal/kpi"
	"github.com/mazta/kpi-dashboard/internal/report"
	"github.com/mazta/kpi-dashboard/internal/transport/middleware"
	"github.com/mazta/kpi-dashboard/internal/transport/swagger"
	"github.com/mazta/kpi-dashboard/pkg/metrics"
)

func RegisterAllRoutes(
	router *chi.Mux,
	upstream UpstreamPinger,
	authHandler *auth.Handler,
	kpiHandler *kpi.Handler,
	reportHandler *report.Handler,
	commentHandler *comment.Handler,
	documentHandler *document.Handler,
	m *metrics.Metrics,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(upstream)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	if m != nil {
		router.Use(middleware.MetricsMiddleware(m))
	}

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	if m != nil {
		router.Handle("/metrics", m.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/logout", authHandler.Logout)
				sr.Get("/check-login", authHandler.CheckLogin)
			})
		}

		if authHandler != nil {
			// Protected routes that require a session
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.SessionMiddleware)

				pr.Get("/users/me", authHandler.Me)

				// Ranking and aggregation routes
				if kpiHandler != nil {
					pr.Get("/ranking/departments", kpiHandler.DepartmentRanking)
					pr.Get("/ranking/employees", kpiHandler.EmployeeRanking)
					pr.Get("/departments/summary", kpiHandler.DepartmentSummary)
					pr.Get("/departments/summary/pdf", kpiHandler.DepartmentSummaryPDF)
					pr.Get("/kpi/summary", kpiHandler.KpiSummary)
					pr.Get("/kpi/performers", kpiHandler.Performers)
				}

				// Visibility-filtered sheet listings
				if reportHandler != nil {
					pr.Get("/workload", reportHandler.Workload)
					pr.Get("/kpi/personal", reportHandler.KpiPersonal)
					pr.Get("/quality-objectives", reportHandler.QualityObjectives)
					pr.Get("/quality-objectives/chart", reportHandler.QualityObjectiveChart)
					pr.Get("/quality-objectives/indicators", reportHandler.QualityObjectiveIndicators)
					pr.Get("/indicators/personal", reportHandler.PersonalIndicators)
					pr.Route("/projects", func(prr chi.Router) {
						prr.Get("/collaboration", reportHandler.ProjectCollaboration)
						prr.Get("/independent", reportHandler.ProjectIndependent)
						prr.Get("/collaboration/detail", reportHandler.CollaborationDetail)
						prr.Get("/independent/detail", reportHandler.IndependentDetail)
						prr.Get("/all", reportHandler.AllProjects)
						prr.Get("/summary", reportHandler.ProjectSummary)
					})
				}

				// Comment routes
				if commentHandler != nil {
					pr.Route("/comments", func(cr chi.Router) {
						cr.Get("/", commentHandler.List)
						cr.Post("/", commentHandler.Append)
					})
				}

				// Document routes
				if documentHandler != nil {
					pr.Route("/documents", func(dr chi.Router) {
						dr.Get("/", documentHandler.List)
						dr.Post("/", documentHandler.Upload)
						dr.Get("/{id}/download", documentHandler.Download)
						dr.Get("/{id}/preview", documentHandler.Preview)
						dr.Delete("/{id}", documentHandler.Delete)
					})
				}
			})
		}
	})
}
