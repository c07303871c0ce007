package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aulaeco/recicla-backend/internal/ledger"
	"github.com/aulaeco/recicla-backend/internal/materials"
	"github.com/aulaeco/recicla-backend/pkg/backup"
	"github.com/aulaeco/recicla-backend/pkg/config"
	"github.com/aulaeco/recicla-backend/pkg/db"
	"github.com/aulaeco/recicla-backend/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	material := flag.String("material", string(materials.MaterialPlasticoPP), "over-represented material to drain")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "rebalance"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	backupPath, err := backup.Create(cfg.DB.Path, cfg.Backup.Dir, "rebalance")
	if err != nil {
		logg.Error(ctx, "refusing to rebalance without a backup", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "backup", backupPath), "database backed up")

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to open database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	rb, err := ledger.NewRebalancer(ledger.NewRepository(dbClient.DB()), logg, nil)
	if err != nil {
		logg.Error(ctx, "failed to create rebalancer", err)
		os.Exit(1)
	}

	result, err := rb.Rebalance(ctx, materials.Material(*material))
	if err != nil {
		logg.Error(ctx, "rebalance failed", err)
		os.Exit(1)
	}

	fmt.Printf("ceiling: %d\n", result.Ceiling)
	fmt.Printf("moved:   %d\n", result.Moved)
	for _, m := range materials.Enforced() {
		fmt.Printf("%-12s %3d -> %3d\n", m, result.CountsBefore[m], result.CountsAfter[m])
	}
}
