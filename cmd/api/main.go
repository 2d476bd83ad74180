// @title                       Car Marketplace API
// @version                     1.0
// @description                 Browse used car listings and manage your own.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/gaadidekho/car-marketplace/internal/api"
	"github.com/gaadidekho/car-marketplace/internal/core/service"
	"github.com/gaadidekho/car-marketplace/internal/infrastructure/db/mongo"
	"github.com/gaadidekho/car-marketplace/internal/infrastructure/db/redis"
	"github.com/gaadidekho/car-marketplace/internal/infrastructure/http/handlers"
	"github.com/gaadidekho/car-marketplace/internal/infrastructure/queue"
	"github.com/gaadidekho/car-marketplace/internal/pkg/config"
	"github.com/gaadidekho/car-marketplace/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "car-marketplace",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Repositories ---
	users := mongo.NewAuthRepository(db)
	listings := mongo.NewListingRepository(db)
	activity := mongo.NewActivityRepository(db)
	revocations := redis.NewRevocationStore(rdb)

	// --- Services ---
	activityService := service.NewActivityService(activity, log.With().Str("component", "activity").Logger())
	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, activityService, log.With().Str("component", "dispatcher").Logger())

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	authService := service.NewAuthService(users, revocations, cfg.JWTSecret, cfg.TokenTTL,
		log.With().Str("component", "auth").Logger())
	listingService := service.NewListingService(listings, users, dispatcher,
		log.With().Str("component", "listings").Logger())

	e := api.NewRouter(api.Deps{
		Logger:       log,
		Auth:         authService,
		Listings:     listingService,
		HealthChecks: []handlers.Check{handlers.MongoCheck(db), handlers.RedisCheck(rdb)},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
