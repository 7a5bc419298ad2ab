package routes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"assistec/internal/adapter/persistence/memory"
	"assistec/internal/adapter/persistence/repository"
	"assistec/internal/config"
	"assistec/internal/infrastructure/database"
	"assistec/internal/pkg/logger"
	"assistec/internal/usecase/interfaces"
)

type repositories struct {
	orders   interfaces.IServiceOrderRepository
	history  interfaces.IOrderHistoryRepository
	items    interfaces.IOrderItemRepository
	messages interfaces.IOrderMessageRepository
	outbox   interfaces.IOutboxRepository
	settings interfaces.ISettingsRepository
	profiles interfaces.IProfileRepository
	payments interfaces.IBillingPaymentRepository
}

// newRepositories builds the storage layer selected by storage.driver.
func newRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return repositories{
			orders:   memory.NewServiceOrderRepository(store),
			history:  memory.NewOrderHistoryRepository(store),
			items:    memory.NewOrderItemRepository(store),
			messages: memory.NewOrderMessageRepository(store),
			outbox:   memory.NewOutboxRepository(store),
			settings: memory.NewSettingsRepository(store),
			profiles: memory.NewProfileRepository(store),
			payments: memory.NewBillingPaymentRepository(store),
		}, nil

	case config.StorageDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx, cfg.DynamoDB)
		if err != nil {
			return repositories{}, fmt.Errorf("connect dynamodb: %w", err)
		}
		tables := cfg.DynamoDB.Tables
		logger.Info("using dynamodb storage", zap.String("orders_table", tables.Orders))
		return repositories{
			orders:   repository.NewServiceOrderDynamoRepository(ddb, tables),
			history:  repository.NewOrderHistoryDynamoRepository(ddb, tables),
			items:    repository.NewOrderItemDynamoRepository(ddb, tables),
			messages: repository.NewOrderMessageDynamoRepository(ddb, tables),
			outbox:   repository.NewOutboxDynamoRepository(ddb, tables),
			settings: repository.NewSettingsDynamoRepository(ddb, tables),
			profiles: repository.NewProfileDynamoRepository(ddb, tables),
			payments: repository.NewBillingPaymentDynamoRepository(ddb, tables),
		}, nil
	}
	return repositories{}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
