package interfaces

import (
	"context"

	"assistec/internal/domain/entities"
)

//go:generate mockgen -source=billing_payment_repository_interface.go -destination=mocks/mock_billing_payment_repository.go -package=mock_interfaces

// IBillingPaymentRepository persists BillingPayment.
type IBillingPaymentRepository interface {
	Create(ctx context.Context, p entities.BillingPayment) (entities.BillingPayment, error)
	GetByID(ctx context.Context, id string) (entities.BillingPayment, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.BillingPayment, error)
}
