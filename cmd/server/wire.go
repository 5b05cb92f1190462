//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/janhq/commerce-api/internal/config"
	"github.com/janhq/commerce-api/internal/domain/assistant"
	"github.com/janhq/commerce-api/internal/domain/tool"
	"github.com/janhq/commerce-api/internal/infrastructure/auth"
	"github.com/janhq/commerce-api/internal/infrastructure/logger"
	"github.com/janhq/commerce-api/internal/infrastructure/metrics"
	conversationrepo "github.com/janhq/commerce-api/internal/infrastructure/repository/conversation"
	"github.com/janhq/commerce-api/internal/interfaces/httpserver"
	"github.com/janhq/commerce-api/internal/interfaces/httpserver/handlers"
)

var assistantSet = wire.NewSet(
	newAgentRepository,
	newCommerceStore,
	conversationrepo.NewRepository,
	metrics.NewRecorder,
	newPaymentClient,
	newCartService,
	newToolRegistry,
	newToolExecutor,
	newModelGateway,
	newTurnLocker,
	newAssistantService,
	wire.Bind(new(handlers.AssistantService), new(*assistant.Service)),
	wire.Bind(new(handlers.ToolCatalog), new(*tool.Registry)),
)

// BuildApplication assembles the same graph as main with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		auth.NewValidator,
		assistantSet,
		newReadinessChecks,
		newCrontab,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}
