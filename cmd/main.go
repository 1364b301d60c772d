package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arzan03/productsdb-api/internal/cache"
	"github.com/arzan03/productsdb-api/internal/config"
	"github.com/arzan03/productsdb-api/internal/db"
	"github.com/arzan03/productsdb-api/internal/events"
	"github.com/arzan03/productsdb-api/internal/handlers"
	"github.com/arzan03/productsdb-api/internal/logging"
	"github.com/arzan03/productsdb-api/internal/repository"
	"github.com/arzan03/productsdb-api/internal/services"
	"github.com/arzan03/productsdb-api/internal/storage"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	ctx := context.Background()

	// Connect to MongoDB
	client, err := db.ConnectMongoDB(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	database := client.Database(cfg.Mongo.Database)

	// Domain events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled() {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing domain events")
	}

	// Distinct values cache
	var distinct cache.DistinctCache = cache.NopCache{}
	if cfg.Redis.Enabled() {
		redisCache := cache.NewRedisCache(cfg.Redis, logger)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, cache reads will miss until it recovers")
		}
		distinct = redisCache
	}

	// Payment receipts
	var receipts services.ReceiptStore
	if cfg.Minio.Enabled() {
		minioStorage, err := storage.NewMinio(ctx, cfg.Minio, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("receipt archival disabled")
		} else {
			receipts = minioStorage
		}
	}

	if cfg.JWT.Secret == "" {
		logger.Warn().Msg("JWT_SECRET is empty, token issuing and admin checks are disabled")
	}

	app := handlers.NewApp(handlers.Deps{
		Products: services.NewProductService(repository.NewProductMongoRepository(database), distinct, logger),
		Users:    services.NewUserService(repository.NewUserMongoRepository(ctx, logger, database), publisher),
		Tasks:    services.NewTaskService(repository.NewTaskMongoRepository(ctx, logger, database), publisher),
		Payments: services.NewPaymentService(
			repository.NewPaymentMongoRepository(ctx, logger, database),
			receipts,
			publisher,
			logger,
		),
		Tokens:         services.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL),
		RequestTimeout: cfg.RequestTimeout,
	}, logger)

	// Start server
	go func() {
		logger.Info().Str("port", cfg.Port).Msgf("products is sitting on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
	if err := publisher.Close(); err != nil {
		logger.Error().Err(err).Msg("event publisher close failed")
	}
	if err := distinct.Close(); err != nil {
		logger.Error().Err(err).Msg("cache close failed")
	}

	disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := client.Disconnect(disconnectCtx); err != nil {
		logger.Error().Err(err).Msg("mongo disconnect failed")
	}
	logger.Info().Msg("server exited")
}
