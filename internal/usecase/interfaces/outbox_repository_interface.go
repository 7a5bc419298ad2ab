package interfaces

import (
	"context"

	"assistec/internal/domain/entities"
)

//go:generate mockgen -source=outbox_repository_interface.go -destination=mocks/mock_outbox_repository.go -package=mock_interfaces

// IOutboxRepository persists secondary effects awaiting delivery.
type IOutboxRepository interface {
	Enqueue(ctx context.Context, msg entities.OutboxMessage) (entities.OutboxMessage, error)
	// ListPending returns pending or failed messages still under maxAttempts, oldest first.
	ListPending(ctx context.Context, limit, maxAttempts int) ([]entities.OutboxMessage, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}
