package app

import (
	"context"
	"fmt"
	"log/slog"

	"tagfeed/internal/cache"
	"tagfeed/internal/config"
	"tagfeed/internal/database"
	"tagfeed/internal/metrics"
	"tagfeed/internal/repository"
	"tagfeed/internal/service"
	"tagfeed/internal/storage"
)

type App struct {
	DB       *database.DB
	Redis    *cache.Client
	Storage  storage.Storage
	Services *service.Service
	Metrics  metrics.Provider
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	// connection DB
	db, err := database.ConnectDB(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// connection image storage
	store, err := storage.New(ctx, cfg)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.Info("image storage ready", slog.String("backend", cfg.StorageBackend))

	app := &App{
		DB:      db,
		Storage: store,
		Metrics: metrics.NewPrometheusProvider(),
	}

	var listCache service.PostListCache
	if cfg.CacheEnabled() {
		redisClient, err := cache.NewClient(cfg.Redis, log)
		if err != nil {
			db.CloseDB()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.Redis = redisClient
		listCache = cache.NewPostListCache(redisClient, cfg.Redis.CacheTTL, log)
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	app.Services = service.NewService(repo, cfg, store, listCache, app.Metrics, log)

	return app, nil
}

func (a *App) Close(log *slog.Logger) {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
		}
	}
	if err := a.DB.CloseDB(); err != nil {
		log.Error("Failed to close database", slog.String("error", err.Error()))
	}
}
