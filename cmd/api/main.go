package main

import (
	"context"
	"log"

	"github.com/sceneforge/scene-backend/config"
	"github.com/sceneforge/scene-backend/internal/bootstrap"
	"github.com/sceneforge/scene-backend/internal/projects"
	"github.com/sceneforge/scene-backend/internal/reconcile"
	"github.com/sceneforge/scene-backend/internal/storage"
	"github.com/sceneforge/scene-backend/internal/storage/postgres"
)

const serviceName = "scene-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	cleanupLog := reconcile.NewLog(pool)

	if cfg.App.Environment == "development" {
		if err := projects.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("schema: %v", err)
		}
		if err := cleanupLog.EnsureSchema(ctx); err != nil {
			log.Fatalf("schema: %v", err)
		}
		log.Println("Database schema synchronized")
	}

	// The provider is resolved once here; an unknown STORAGE_PROVIDER
	// aborts startup.
	assets, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		log.Fatalf("storage provider: %v", err)
	}
	log.Printf("Storage provider: %s", cfg.Storage.Provider)

	if cfg.Reconcile.Schedule != "" {
		sweeper := reconcile.NewSweeper(cleanupLog, assets, cfg.Reconcile.BatchSize)
		if err := sweeper.Start(cfg.Reconcile.Schedule); err != nil {
			log.Fatalf("reconcile sweeper: %v", err)
		}
		defer sweeper.Stop()
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		CORSOrigin:  cfg.Server.CORSOrigin,
		DB:          pool,
		Assets:      assets,
		Cleanup:     cleanupLog,
	})

	log.Printf("Server listening on :%s (env %s)", cfg.Server.Port, cfg.App.Environment)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
