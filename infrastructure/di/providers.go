package di

import (
	"context"

	"workspace-backend/application/ports"
	"workspace-backend/application/services"
	"workspace-backend/infrastructure/config"
	"workspace-backend/infrastructure/messaging/eventbridge"
	"workspace-backend/infrastructure/persistence/dynamodb"
	"workspace-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

const metricsNamespace = "WorkspaceBackend"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideAppDataStore creates the DynamoDB-backed record store
func ProvideAppDataStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.AppDataStore {
	return dynamodb.NewAppDataStore(client, cfg.DynamoDBTable, logger)
}

// ProvideEventPublisher creates an event publisher. When the event bus is
// disabled, events are discarded.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if !cfg.EnableEvents {
		return eventbridge.NopPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the CloudWatch metrics recorder. A nil recorder is
// valid and records nothing.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics(client, metricsNamespace)
}

// ProvideSyncManager creates the per-user sync session manager
func ProvideSyncManager(
	store ports.AppDataStore,
	metrics *observability.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *services.SyncManager {
	return services.NewSyncManager(store, metrics, logger, cfg.SaveDebounce)
}
