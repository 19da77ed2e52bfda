package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/locadora/rental-system/internal/api"
	"github.com/locadora/rental-system/internal/core/ports"
	"github.com/locadora/rental-system/internal/core/service"
	"github.com/locadora/rental-system/internal/infrastructure/config"
	"github.com/locadora/rental-system/internal/infrastructure/lookup"
	"github.com/locadora/rental-system/internal/infrastructure/queue"
	"github.com/locadora/rental-system/internal/infrastructure/storage"
	"github.com/locadora/rental-system/pkg/logger"
)

const httpClientTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	store, cleanup, err := buildStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Backend).Msg("setup storage")
	}
	defer cleanup()

	httpClient := &http.Client{Timeout: httpClientTimeout}
	movies := lookup.NewOMDbClient(httpClient, cfg.OMDb.BaseURL, cfg.OMDb.APIKey, log)
	postal := lookup.NewViaCepClient(httpClient, cfg.ViaCep.BaseURL, log)

	notifier := service.NewNotificationCenter(log)
	authService := service.NewAuthService(store, notifier, cfg.JWTSecret, log)
	userService := service.NewUserService(store, notifier, authService, log)
	clientService := service.NewClientService(store, notifier, log)
	rentalService := service.NewRentalService(store, notifier, clientService, userService, movies, log)

	if err := userService.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("load users")
	}
	if err := clientService.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("load clients")
	}
	if err := rentalService.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("load rentals")
	}
	authService.Initialize(ctx)

	audit := queue.NewDispatcher(0, log)
	audit.Start(ctx)

	e := api.NewRouter(api.Dependencies{
		Store:     store,
		Notifier:  notifier,
		Auth:      authService,
		Users:     userService,
		Clients:   clientService,
		Rentals:   rentalService,
		Movies:    movies,
		Postal:    postal,
		Audit:     audit,
		JWTSecret: cfg.JWTSecret,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("backend", cfg.Backend).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("bye")
}

// buildStore selects the persistence backend and returns the store together
// with a cleanup function that releases the underlying connection.
func buildStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.BlobStore, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemory(), func() {}, nil

	case config.BackendRedis:
		client, err := storage.ConnectRedis(ctx, storage.RedisConfig{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("close redis")
			}
		}
		return storage.NewRedis(client), cleanup, nil

	case config.BackendMongo:
		client, db, err := storage.ConnectMongo(ctx, storage.MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Warn().Err(err).Msg("disconnect mongo")
			}
		}
		return storage.NewMongo(db), cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
