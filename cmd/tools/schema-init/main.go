// cmd/tools/schema-init/main.go

// schema-init applies the portal database schema. Idempotent; run it before
// first start or after pulling a schema change.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"office-portal/internal/common/config"
	"office-portal/internal/common/database"
	"office-portal/internal/common/logger"
	"office-portal/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres open failed", zap.Error(err))
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	if err := store.EnsureSchema(ctx, pg.DB); err != nil {
		zapLog.Fatal("schema apply failed", zap.Error(err))
	}

	zapLog.Info("Schema applied", zap.Int("statements", len(store.Schema)))
}
