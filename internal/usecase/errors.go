package usecase

import (
	"errors"
	"fmt"
	"time"

	"assistec/internal/domain/entities"
	"assistec/internal/domain/lifecycle"
)

// Taxonomy roots. Every sentinel below wraps one of them so callers can
// branch on the category with errors.Is.
var (
	ErrValidation = lifecycle.ErrValidation
	ErrNotFound   = errors.New("not found")
)

var (
	ErrInvalidStatus        = lifecycle.ErrInvalidStatus
	ErrInvalidAmount        = lifecycle.ErrInvalidAmount
	ErrInvalidOrderID       = fmt.Errorf("%w: invalid order id", ErrValidation)
	ErrInvalidOrderInput    = fmt.Errorf("%w: invalid order input", ErrValidation)
	ErrInvalidProfileInput  = fmt.Errorf("%w: invalid profile input", ErrValidation)
	ErrInvalidMessage       = fmt.Errorf("%w: invalid message", ErrValidation)
	ErrInvalidSettings      = fmt.Errorf("%w: invalid notification settings", ErrValidation)
	ErrConfirmationRequired = fmt.Errorf("%w: deletion must be confirmed", ErrValidation)

	ErrOrderNotFound         = fmt.Errorf("service order %w", ErrNotFound)
	ErrApprovalNotFound      = fmt.Errorf("approval link %w", ErrNotFound)
	ErrApprovalEntryNotFound = fmt.Errorf("approval entry %w", ErrNotFound)
	ErrProfileNotFound       = fmt.Errorf("profile %w", ErrNotFound)

	// ErrNotAwaitingDecision: the link is valid but the order left awaiting_approval.
	ErrNotAwaitingDecision = lifecycle.ErrNotAwaiting

	// ErrConcurrentUpdate: the order's costs kept changing under the write.
	// Nothing was saved; the caller may try again.
	ErrConcurrentUpdate = errors.New("service order changed concurrently")
)

// PersistenceError is a failed store write. It carries what is needed to
// reconcile by hand: which order, which status was attempted and when.
type PersistenceError struct {
	Op      string
	OrderID string
	Status  entities.OrderStatus
	At      time.Time
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s order %s (status %s): %v", e.Op, e.OrderID, e.Status, e.Err)
	}
	return fmt.Sprintf("%s order %s: %v", e.Op, e.OrderID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationDispatchError is a failed secondary effect. It is reported as a
// warning next to a successful primary result, never returned as the error.
type NotificationDispatchError struct {
	OrderID  string
	Template entities.TemplateKey
	Channel  entities.OutboxChannel
	Err      error
}

func (e *NotificationDispatchError) Error() string {
	return fmt.Sprintf("notification %s via %s for order %s: %v", e.Template, e.Channel, e.OrderID, e.Err)
}

func (e *NotificationDispatchError) Unwrap() error { return e.Err }
