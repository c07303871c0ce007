package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/aulaeco/recicla-backend/internal/ledger"
	"github.com/aulaeco/recicla-backend/pkg/backup"
	"github.com/aulaeco/recicla-backend/pkg/config"
	"github.com/aulaeco/recicla-backend/pkg/db"
	"github.com/aulaeco/recicla-backend/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "normalize"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	backupPath, err := backup.Create(cfg.DB.Path, cfg.Backup.Dir, "normalize")
	if err != nil {
		logg.Error(ctx, "refusing to normalize without a backup", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "backup", backupPath), "database backed up")

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to open database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	repo := ledger.NewRepository(dbClient.DB())
	seeder, err := ledger.NewSeeder(repo, cfg.Ledger, nil, nil)
	if err != nil {
		logg.Error(ctx, "failed to create seeder", err)
		os.Exit(1)
	}
	auditor, err := ledger.NewAuditor(repo, seeder, cfg.Ledger, logg, nil)
	if err != nil {
		logg.Error(ctx, "failed to create auditor", err)
		os.Exit(1)
	}

	before, err := repo.CountByMaterial(ctx)
	if err != nil {
		logg.Error(ctx, "failed to count ledger", err)
		os.Exit(1)
	}

	rewrites, err := auditor.NormalizeAll(ctx)
	if err != nil {
		logg.Error(ctx, "normalization sweep failed", err)
		os.Exit(1)
	}

	after, err := repo.CountByMaterial(ctx)
	if err != nil {
		logg.Error(ctx, "failed to count ledger", err)
		os.Exit(1)
	}

	labels := make(map[string]struct{}, len(before)+len(after))
	for label := range before {
		labels[label] = struct{}{}
	}
	for label := range after {
		labels[label] = struct{}{}
	}
	ordered := make([]string, 0, len(labels))
	for label := range labels {
		ordered = append(ordered, label)
	}
	sort.Strings(ordered)

	fmt.Printf("rewrites: %d\n", rewrites)
	for _, label := range ordered {
		fmt.Printf("%-12s %3d -> %3d\n", label, before[label], after[label])
	}
}
