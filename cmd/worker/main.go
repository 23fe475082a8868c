package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"inkwell/api/internal/cache"
	"inkwell/api/internal/config"
	"inkwell/api/internal/database"
	"inkwell/api/internal/log"
	"inkwell/api/internal/media"
	"inkwell/api/internal/repository"
	"inkwell/api/internal/storage"
	"inkwell/api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment).With().Str("app", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer redisClient.Close()

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}

	images := repository.NewImageRepository(dbPool)
	processor := worker.NewProcessor(images, objectStore, media.NewWebpEncoder(), logger)

	consumer := worker.NewConsumer(
		redisClient,
		cfg.Worker.Stream,
		cfg.Worker.Group,
		cfg.Worker.Consumer,
		cfg.Worker.ClaimInterval,
		logger,
		processor,
	)

	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ensure consumer group failed")
	}

	logger.Info().Str("stream", cfg.Worker.Stream).Msg("worker starting")

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("consumer stopped")
	}

	logger.Info().Msg("worker exited cleanly")
}
