package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/ticketdesk/assigner/internal/config"
	"github.com/ticketdesk/assigner/internal/db"
	httpapi "github.com/ticketdesk/assigner/internal/http"
	"github.com/ticketdesk/assigner/internal/http/handlers"
	"github.com/ticketdesk/assigner/internal/lock"
	"github.com/ticketdesk/assigner/internal/service"
)

// backend is what both the Postgres and the in-memory store provide.
type backend interface {
	handlers.Store
	service.AssignmentLog
	service.RunLog
}

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file with configuration")
	migrate := pflag.Bool("migrate", false, "create tables before serving")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "ticket-assigner").Logger()

	loc, _ := cfg.Location()

	ctx := context.Background()
	var store backend
	if cfg.DatabaseURL == "" {
		store = db.NewMemoryStore(nil, nil)
		logger.Info().Msg("DATABASE_URL not set, using in-memory store")
	} else {
		pg, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer pg.Close()
		if *migrate {
			if err := pg.Migrate(ctx); err != nil {
				logger.Fatal().Err(err).Msg("failed to migrate db")
			}
			logger.Info().Msg("schema ready")
		}
		store = pg
	}

	var runLock lock.Locker = &lock.Local{}
	if cfg.RedisURL != "" {
		client, err := lock.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer client.Close()
		runLock = lock.NewRedis(client, cfg.RunLockKey, cfg.RunLockTTL)
		logger.Info().Str("key", cfg.RunLockKey).Msg("using redis run lock")
	}

	assigner := &service.AutoAssignService{
		Store:             store,
		Log:               store,
		Runs:              store,
		Lock:              runLock,
		Logger:            logger,
		Location:          loc,
		AppendConcurrency: cfg.AppendConcurrency,
	}

	router := httpapi.Router(cfg, store, assigner, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
