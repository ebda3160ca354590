// Package main is the entry point for the slot machine HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"slot-machine-service/internal/config"
	"slot-machine-service/internal/game"
	"slot-machine-service/internal/game/classic"
	"slot-machine-service/internal/game/grand"
	"slot-machine-service/internal/handler"
	"slot-machine-service/internal/pkg/db"
	"slot-machine-service/internal/pkg/lock"
	"slot-machine-service/internal/pkg/rng"
	"slot-machine-service/internal/repository"
	"slot-machine-service/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg.Log)

	log.Info().Str("store", cfg.Store.Driver).Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open account store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close account store")
		}
	}()

	gameRegistry := game.NewRegistry()
	for _, g := range []game.Game{classic.New(), grand.New()} {
		if err := gameRegistry.Register(g); err != nil {
			log.Fatal().Err(err).Str("game", g.Command()).Msg("Failed to register game")
		}
	}
	log.Info().
		Int("game_count", gameRegistry.Count()).
		Strs("games", gameRegistry.Commands()).
		Msg("Games registered")

	sessions := service.NewSessionRegistry(store, cfg.Ledger.StartingBalance)
	ledger := service.NewLedger(store, gameRegistry, lock.NewKeyLock(), rng.Default(), service.LedgerConfig{
		StartingBalance: cfg.Ledger.StartingBalance,
		LockTimeout:     cfg.Ledger.LockTimeout,
	})

	gin.SetMode(cfg.Server.Mode)
	router := handler.NewRouter(&handler.Dependencies{
		Sessions:     sessions,
		Ledger:       ledger,
		Games:        gameRegistry,
		Health:       store,
		Session:      cfg.Session,
		HistoryLimit: cfg.Ledger.HistoryLimit,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("HTTP server is starting...")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serveErr:
		log.Error().Err(err).Msg("HTTP server failed")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
		return
	}
	log.Info().Msg("HTTP server stopped gracefully")
}

// setupLogger applies the configured level and output format.
func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.Pretty {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// openStore connects the configured account backend.
func openStore(ctx context.Context, cfg *config.Config) (repository.AccountStore, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory account store, balances are lost on restart")
		return repository.NewMemoryStore(), nil

	case config.DriverRedis:
		client, err := db.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Redis.HistoryCap), nil

	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		store, err := repository.NewPostgresStore(pool.Pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		return &pgStore{PostgresStore: store, pool: pool}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// pgStore closes the pool together with the store.
type pgStore struct {
	*repository.PostgresStore
	pool *db.Pool
}

func (s *pgStore) Close() error {
	s.pool.Close()
	return nil
}
