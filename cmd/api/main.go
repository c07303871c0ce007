package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aulaeco/recicla-backend/api/routes"
	"github.com/aulaeco/recicla-backend/internal/auth"
	"github.com/aulaeco/recicla-backend/internal/ledger"
	"github.com/aulaeco/recicla-backend/internal/users"
	"github.com/aulaeco/recicla-backend/pkg/config"
	"github.com/aulaeco/recicla-backend/pkg/db"
	"github.com/aulaeco/recicla-backend/pkg/logger"
	"github.com/aulaeco/recicla-backend/pkg/metrics"
	"github.com/aulaeco/recicla-backend/pkg/migrate"
	"github.com/aulaeco/recicla-backend/pkg/security"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	maintenanceMetrics := metrics.NewMaintenanceMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	if err := users.EnsureDemoUsers(context.Background(), usersRepo, cfg.Password, logg); err != nil {
		logg.Error(context.Background(), "failed to seed demo users", err)
		os.Exit(1)
	}

	ledgerRepo := ledger.NewRepository(dbClient.DB())
	seeder, err := ledger.NewSeeder(ledgerRepo, cfg.Ledger, nil, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger seeder", err)
		os.Exit(1)
	}
	auditor, err := ledger.NewAuditor(ledgerRepo, seeder, cfg.Ledger, logg, maintenanceMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger auditor", err)
		os.Exit(1)
	}
	report, err := auditor.Maintain(context.Background())
	if err != nil {
		logg.Error(context.Background(), "ledger maintenance failed", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(context.Background(), "audit", report.Describe()), "startup ledger maintenance complete")

	ledgerService, err := ledger.NewService(ledgerRepo, cfg.Ledger, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(usersRepo, cfg.JWT, security.VerifyPassword, logg, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, authService, ledgerService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
