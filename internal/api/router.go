package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/topmart/Investment-Engine-Backend/internal/api/handlers"
	custommiddleware "github.com/topmart/Investment-Engine-Backend/internal/api/middleware"
	"github.com/topmart/Investment-Engine-Backend/internal/config"
	"github.com/topmart/Investment-Engine-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	planService *service.PlanService,
	lifecycleService *service.LifecycleService,
	sweepService *service.SweepService,
	triggerAuth *custommiddleware.TriggerAuth,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/plan", func(r chi.Router) {
			planHandler := handlers.NewPlanHandler(planService)
			r.Get("/", planHandler.Plans)
			r.With(custommiddleware.ValidateUUIDMiddleware).Get("/{uuid}", planHandler.Plan)
			r.With(custommiddleware.Identity, custommiddleware.RequireAdmin).Post("/", planHandler.CreatePlan)
		})

		r.Route("/investment", func(r chi.Router) {
			r.Use(custommiddleware.Identity)
			investmentHandler := handlers.NewInvestmentHandler(lifecycleService)
			r.Post("/", investmentHandler.CreateInvestment)
			r.With(custommiddleware.ValidateUUIDMiddleware).Get("/user/{uuid}", investmentHandler.UserInvestments)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", investmentHandler.GetInvestment)
				r.Post("/cancel", investmentHandler.CancelInvestment)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			adminHandler := handlers.NewAdminHandler(lifecycleService, sweepService)

			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.Identity, custommiddleware.RequireAdmin)
				r.Get("/investment", adminHandler.Investments)
				r.Get("/stats", adminHandler.Stats)
				r.Get("/alerts", adminHandler.Alerts)
				r.Route("/investment/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Post("/approve", adminHandler.ApproveInvestment)
					r.Post("/reject", adminHandler.RejectInvestment)
				})
			})

			// Sweep triggers are authenticated by token, not identity headers,
			// so cron jobs and recovery scripts can call them.
			r.Route("/sweep", func(r chi.Router) {
				r.Use(triggerAuth.Handler)
				sweepHandler := handlers.NewSweepHandler(sweepService, cfg.Scheduler.RunBudget)
				r.Post("/accrual", sweepHandler.Accrual)
				r.Post("/maturity", sweepHandler.Maturity)
				r.Post("/catchup", sweepHandler.CatchUp)
				r.Post("/all", sweepHandler.All)
			})
		})
	})

	return r
}
