//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"workspace-backend/application/ports"
	"workspace-backend/application/services"
	"workspace-backend/infrastructure/config"
	"workspace-backend/pkg/observability"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	AppDataStore   ports.AppDataStore
	EventPublisher ports.EventPublisher
	Metrics        *observability.Metrics
	SyncManager    *services.SyncManager
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideAppDataStore,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideSyncManager,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
