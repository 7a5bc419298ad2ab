package interfaces

import (
	"context"
	"errors"

	"assistec/internal/domain/entities"
)

//go:generate mockgen -source=service_order_repository_interface.go -destination=mocks/mock_service_order_repository.go -package=mock_interfaces

var (
	// ErrCostsChanged is returned by a write whose patch carries a cost guard
	// the stored order no longer holds. Nothing was written.
	ErrCostsChanged = errors.New("order costs changed since they were read")
	// ErrReloadFailed is returned when a write committed but the updated order
	// could not be read back.
	ErrReloadFailed = errors.New("order saved but could not be reloaded")
)

// IServiceOrderRepository persists service orders.
//
// Every write that changes the lifecycle goes together with its history
// entries as one atomic unit; a history row never references an update that
// did not commit.
//
// Getters return a zero ServiceOrder (empty ID) when nothing matches.
//
// Writes whose patch has a Guard commit only while the stored labor, parts
// and discount figures equal the guarded ones, else they fail with
// ErrCostsChanged.
type IServiceOrderRepository interface {
	NextOrderNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, order entities.ServiceOrder, entry entities.StatusHistoryEntry) (entities.ServiceOrder, error)
	GetByID(ctx context.Context, id string) (entities.ServiceOrder, error)
	GetByApprovalToken(ctx context.Context, token string) (entities.ServiceOrder, error)

	// SaveTransition applies patch and appends entry. Returns a zero order when
	// id does not exist, and ErrReloadFailed when only the read back failed.
	SaveTransition(ctx context.Context, id string, patch entities.OrderPatch, entry entities.StatusHistoryEntry) (entities.ServiceOrder, error)
	// SaveDiscount applies patch without touching history.
	SaveDiscount(ctx context.Context, id string, patch entities.OrderPatch) (entities.ServiceOrder, error)
	// SaveApproval applies patch, appends approval and entry only if the order
	// still holds token, budget_approved is false and status is
	// awaiting_approval. applied=false means another request got there first.
	SaveApproval(ctx context.Context, token string, patch entities.OrderPatch, approval entities.ApprovalHistoryEntry, entry entities.StatusHistoryEntry) (order entities.ServiceOrder, applied bool, err error)
	// SaveRejection is SaveApproval's counterpart, under the same conditions.
	SaveRejection(ctx context.Context, token string, patch entities.OrderPatch, entry entities.StatusHistoryEntry) (order entities.ServiceOrder, applied bool, err error)

	Delete(ctx context.Context, id string) error
}
