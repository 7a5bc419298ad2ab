package interfaces

import (
	"context"

	"assistec/internal/domain/entities"
)

//go:generate mockgen -source=order_message_repository_interface.go -destination=mocks/mock_order_message_repository.go -package=mock_interfaces

// IOrderMessageRepository stores the chat thread of an order.
type IOrderMessageRepository interface {
	Append(ctx context.Context, msg entities.OrderMessage) (entities.OrderMessage, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.OrderMessage, error)
	DeleteByOrderID(ctx context.Context, orderID string) error
}
