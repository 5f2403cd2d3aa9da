package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/cache"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/config"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/content"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/repository"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/service"
	"github.com/redis/go-redis/v9"
)

func credentials(cfg *config.Config) *repository.Credentials {
	return &repository.Credentials{
		Host:              cfg.DB.Host,
		Port:              cfg.DB.Port,
		User:              cfg.DB.User,
		Password:          cfg.DB.Password,
		DBName:            cfg.DB.Name,
		MigrationsDirPath: cfg.DB.MigrationsDirPath,
	}
}

// connectRepository opens Postgres without touching the schema.
func connectRepository(cfg *config.Config) (*repository.Repository, error) {
	repo, err := repository.NewRepository(credentials(cfg))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return repo, nil
}

// openRepository connects to Postgres and applies pending migrations.
func openRepository(cfg *config.Config, log *slog.Logger) (*repository.Repository, error) {
	repo, err := connectRepository(cfg)
	if err != nil {
		return nil, err
	}
	if err := repo.RunMigrations(credentials(cfg)); err != nil {
		repo.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	log.Info("database migrations completed")
	return repo, nil
}

// galleryCache falls back to no caching when REDIS_ADDR is unset or Redis
// does not answer.
func galleryCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (cache.GalleryCache, func()) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, gallery cache disabled")
		return cache.Noop{}, func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, gallery cache disabled", slog.String("error", err.Error()))
		client.Close()
		return cache.Noop{}, func() {}
	}
	log.Info("connected to redis", slog.String("addr", cfg.RedisAddr))
	return cache.NewRedisCache(client), func() { client.Close() }
}

func galleryService(ctx context.Context, cfg *config.Config, log *slog.Logger) (*service.GalleryService, func()) {
	cms := content.NewClient(content.ClientConfig{
		BaseURL:     cfg.ContentfulBaseURL,
		SpaceID:     cfg.ContentfulSpaceID,
		Environment: cfg.ContentfulEnvironment,
		AccessToken: cfg.ContentfulAccessToken,
		Timeout:     cfg.RequestTimeout,
	}, log)
	c, closeCache := galleryCache(ctx, cfg, log)
	return service.NewGalleryService(cms, c, log), closeCache
}
