package interfaces

import (
	"context"

	"assistec/internal/domain/entities"
)

//go:generate mockgen -source=order_history_repository_interface.go -destination=mocks/mock_order_history_repository.go -package=mock_interfaces

// IOrderHistoryRepository reads the append-only logs of an order.
// Lists are in chronological order.
type IOrderHistoryRepository interface {
	ListStatusHistory(ctx context.Context, orderID string) ([]entities.StatusHistoryEntry, error)
	ListApprovalHistory(ctx context.Context, orderID string) ([]entities.ApprovalHistoryEntry, error)
	// DeleteApprovalEntry is an admin correction; found=false when no such entry.
	DeleteApprovalEntry(ctx context.Context, orderID, entryID string) (found bool, err error)
	DeleteByOrderID(ctx context.Context, orderID string) error
}
