package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aulaeco/recicla-backend/api/controllers"
	"github.com/aulaeco/recicla-backend/api/middleware"
	"github.com/aulaeco/recicla-backend/internal/auth"
	"github.com/aulaeco/recicla-backend/internal/ledger"
	"github.com/aulaeco/recicla-backend/pkg/config"
	"github.com/aulaeco/recicla-backend/pkg/db"
	"github.com/aulaeco/recicla-backend/pkg/db/models"
	"github.com/aulaeco/recicla-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	authService auth.Service,
	ledgerService ledger.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(authService, logg))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/recyclings", controllers.PublicRecyclings(ledgerService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/me/records", controllers.MyRecords(ledgerService, logg))
		r.Post("/recyclings", controllers.CreateRecycling(ledgerService, logg))
		r.Get("/stats", controllers.Stats(ledgerService, logg))
		r.Get("/evolution", controllers.Evolution(ledgerService, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin, logg))
			r.Get("/recyclings", controllers.AdminRecyclings(ledgerService, logg))
			r.Get("/global-stats", controllers.GlobalStats(ledgerService, logg))
		})
	})

	return r
}
