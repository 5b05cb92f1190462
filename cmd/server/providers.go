package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/janhq/commerce-api/internal/config"
	"github.com/janhq/commerce-api/internal/domain/agent"
	"github.com/janhq/commerce-api/internal/domain/assistant"
	"github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/domain/llm"
	"github.com/janhq/commerce-api/internal/domain/retry"
	"github.com/janhq/commerce-api/internal/domain/tool"
	"github.com/janhq/commerce-api/internal/infrastructure/cache"
	"github.com/janhq/commerce-api/internal/infrastructure/crontab"
	"github.com/janhq/commerce-api/internal/infrastructure/database"
	"github.com/janhq/commerce-api/internal/infrastructure/llmprovider"
	"github.com/janhq/commerce-api/internal/infrastructure/metrics"
	"github.com/janhq/commerce-api/internal/infrastructure/observability"
	"github.com/janhq/commerce-api/internal/infrastructure/payments"
	agentrepo "github.com/janhq/commerce-api/internal/infrastructure/repository/agent"
	commercerepo "github.com/janhq/commerce-api/internal/infrastructure/repository/commerce"
	conversationrepo "github.com/janhq/commerce-api/internal/infrastructure/repository/conversation"
	toolexecutionrepo "github.com/janhq/commerce-api/internal/infrastructure/repository/toolexecution"
	"github.com/janhq/commerce-api/internal/infrastructure/turnlock"
	"github.com/janhq/commerce-api/internal/interfaces/httpserver"
	"github.com/janhq/commerce-api/internal/webhook"
)

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAgentRepository(cfg *config.Config, db *gorm.DB) (agent.Repository, error) {
	return cache.NewAgents(agentrepo.NewRepository(db), cfg.CacheSize, cfg.CacheTTL)
}

func newCommerceStore(cfg *config.Config, db *gorm.DB) (commerce.Store, error) {
	return cache.NewStore(commercerepo.NewStore(db), cfg.CacheSize, cfg.CacheTTL)
}

func newPaymentClient(cfg *config.Config, log zerolog.Logger) *payments.Client {
	return payments.NewClient(payments.Config{
		APIURL:          cfg.PaymentsAPIURL,
		APIKey:          cfg.PaymentsAPIKey,
		CheckoutBaseURL: cfg.CheckoutBaseURL,
		LinkTTL:         cfg.PaymentLinkTTL,
		Timeout:         cfg.ToolTimeout,
	}, log)
}

func newCartService(store commerce.Store, paymentClient *payments.Client) *commerce.CartService {
	return commerce.NewCartService(store, paymentClient)
}

func newToolRegistry(cfg *config.Config) (*tool.Registry, error) {
	registry := tool.NewRegistry(tool.Defaults{
		DocumentType:  cfg.DefaultDocumentType,
		PaymentMethod: cfg.DefaultPaymentGateway,
	})
	if err := registry.Verify(tool.Names); err != nil {
		return nil, err
	}
	return registry, nil
}

func newToolExecutor(
	cfg *config.Config,
	registry *tool.Registry,
	store commerce.Store,
	carts *commerce.CartService,
	conversations *conversationrepo.Repository,
	recorder *metrics.Recorder,
	log zerolog.Logger,
) *tool.Executor {
	return tool.NewExecutor(registry, tool.Dependencies{
		Store:         store,
		Carts:         carts,
		Conversations: conversations,
		Notifier:      webhook.NewHTTPNotifier(cfg.EscalationWebhookURL, log),
		Recorder:      recorder,
		Timeout:       cfg.ToolTimeout,
		Sanitizer:     observability.ArgumentRedactor{Level: observability.PIILevel(cfg.PIILevel)},
	}, log)
}

func newModelGateway(cfg *config.Config, recorder *metrics.Recorder, log zerolog.Logger) *llm.Gateway {
	provider := llmprovider.NewClient(llmprovider.Config{
		BaseURL: cfg.AnthropicBaseURL,
		APIKey:  cfg.AnthropicAPIKey,
		Version: cfg.AnthropicVersion,
		Timeout: cfg.ModelTimeout,
	})
	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.ModelMaxAttempts
	policy.InitialDelay = cfg.ModelBackoffBase
	policy.MaxDelay = cfg.ModelBackoffMax
	return llm.NewGateway(provider, policy, recorder, log)
}

// lockerSet is the turn locker plus the readiness check and cleanup of its backend.
type lockerSet struct {
	locker assistant.TurnLocker
	check  httpserver.ReadinessCheck
	close  func()
}

func newTurnLocker(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*lockerSet, error) {
	if cfg.RedisURL == "" {
		log.Info().Msg("REDIS_URL not set, conversation turns are serialized per process")
		return &lockerSet{locker: turnlock.NewLocal(), close: func() {}}, nil
	}
	redisLocker, err := turnlock.NewRedis(ctx, cfg.RedisURL, cfg.TurnLockTTL, log)
	if err != nil {
		return nil, err
	}
	return &lockerSet{
		locker: redisLocker,
		check:  redisLocker.HealthCheck,
		close: func() {
			if err := redisLocker.Close(); err != nil {
				log.Error().Err(err).Msg("close redis")
			}
		},
	}, nil
}

func newAssistantService(
	cfg *config.Config,
	db *gorm.DB,
	agents agent.Repository,
	store commerce.Store,
	carts *commerce.CartService,
	conversations *conversationrepo.Repository,
	gateway *llm.Gateway,
	executor *tool.Executor,
	locks *lockerSet,
	recorder *metrics.Recorder,
	log zerolog.Logger,
) *assistant.Service {
	return assistant.NewService(assistant.Dependencies{
		Agents:        agents,
		Conversations: conversations,
		Messages:      conversationrepo.NewMessageRepository(db),
		Store:         store,
		Carts:         carts,
		Executions:    toolexecutionrepo.NewRepository(db),
		Gateway:       gateway,
		Tools:         executor,
		Locker:        locks.locker,
		Recorder:      recorder,
	}, assistant.Config{
		Model:             cfg.ModelID,
		MaxTokens:         cfg.ModelMaxTokens,
		MaxIterations:     cfg.MaxLoopIterations,
		HistoryLimit:      cfg.HistoryLimit,
		RecentOrdersLimit: cfg.RecentOrdersLimit,
	}, log)
}

func newCrontab(cfg *config.Config, carts *commerce.CartService, log zerolog.Logger) *crontab.Crontab {
	return crontab.NewCrontab(carts, crontab.Config{
		Schedule: cfg.CartSweepSchedule,
		MaxIdle:  cfg.CartAbandonAfter,
	}, log)
}

func newReadinessChecks(db *gorm.DB, locks *lockerSet) map[string]httpserver.ReadinessCheck {
	checks := map[string]httpserver.ReadinessCheck{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}
	if locks.check != nil {
		checks["redis"] = locks.check
	}
	return checks
}

// drainTimeout bounds how long shutdown waits for background escalation notices.
const drainTimeout = 5 * time.Second

func waitForExecutor(executor *tool.Executor, log zerolog.Logger) {
	done := make(chan struct{})
	go func() {
		executor.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		log.Warn().Msg("escalation notices still pending at shutdown")
	}
}
