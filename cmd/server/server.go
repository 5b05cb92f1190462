package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/commerce-api/internal/config"
	"github.com/janhq/commerce-api/internal/infrastructure/auth"
	"github.com/janhq/commerce-api/internal/infrastructure/crontab"
	"github.com/janhq/commerce-api/internal/infrastructure/logger"
	"github.com/janhq/commerce-api/internal/infrastructure/metrics"
	"github.com/janhq/commerce-api/internal/infrastructure/observability"
	conversationrepo "github.com/janhq/commerce-api/internal/infrastructure/repository/conversation"
	"github.com/janhq/commerce-api/internal/interfaces/httpserver"
)

// @title Commerce API
// @version 1.0
// @description Conversational shopping assistant for multi-tenant stores.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	crontab    *crontab.Crontab
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, cron *crontab.Crontab, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		crontab:    cron,
		log:        log,
	}
}

// Start runs background jobs and the HTTP server until ctx ends or either of them fails.
func (a *Application) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := a.crontab.Run(ctx); err != nil {
			a.log.Error().Err(err).Msg("crontab stopped")
			return err
		}
		return nil
	})
	eg.Go(func() error {
		return a.httpServer.Run(ctx)
	})
	return eg.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, observability.Settings{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		Enabled:      cfg.EnableTracing,
		OTLPEndpoint: cfg.OTLPEndpoint,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := newGormDB(ctx, newDatabaseConfig(cfg), log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}
	defer authValidator.Close()

	locks, err := newTurnLocker(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize turn locker")
	}
	defer locks.close()

	agents, err := newAgentRepository(cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize agent cache")
	}
	store, err := newCommerceStore(cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize commerce cache")
	}
	conversations := conversationrepo.NewRepository(db)
	recorder := metrics.NewRecorder()

	registry, err := newToolRegistry(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("tool catalog is incomplete")
	}
	carts := newCartService(store, newPaymentClient(cfg, log))
	executor := newToolExecutor(cfg, registry, store, carts, conversations, recorder, log)
	defer waitForExecutor(executor, log)

	service := newAssistantService(cfg, db, agents, store, carts, conversations,
		newModelGateway(cfg, recorder, log), executor, locks, recorder, log)

	httpServer := httpserver.New(cfg, log, service, registry, authValidator, newReadinessChecks(db, locks))
	app := NewApplication(httpServer, newCrontab(cfg, carts, log), log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
