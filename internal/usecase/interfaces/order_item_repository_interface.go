package interfaces

import (
	"context"

	"assistec/internal/domain/entities"
)

type IOrderItemRepository interface {
	Create(ctx context.Context, item entities.ServiceOrderItem) (entities.ServiceOrderItem, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.ServiceOrderItem, error)
	DeleteByOrderID(ctx context.Context, orderID string) error
}
