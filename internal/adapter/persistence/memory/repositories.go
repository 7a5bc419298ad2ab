package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"assistec/internal/domain/entities"
	"assistec/internal/usecase/interfaces"
)

type OrderHistoryRepository struct{ s *Store }

var _ interfaces.IOrderHistoryRepository = (*OrderHistoryRepository)(nil)

func NewOrderHistoryRepository(s *Store) *OrderHistoryRepository {
	return &OrderHistoryRepository{s: s}
}

func (r *OrderHistoryRepository) ListStatusHistory(_ context.Context, orderID string) ([]entities.StatusHistoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneSlice(r.s.statusHistory[orderID]), nil
}

func (r *OrderHistoryRepository) ListApprovalHistory(_ context.Context, orderID string) ([]entities.ApprovalHistoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneSlice(r.s.approvals[orderID]), nil
}

func (r *OrderHistoryRepository) DeleteApprovalEntry(_ context.Context, orderID, entryID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entries := r.s.approvals[orderID]
	for i, e := range entries {
		if e.ID == entryID {
			kept := make([]entities.ApprovalHistoryEntry, 0, len(entries)-1)
			kept = append(kept, entries[:i]...)
			kept = append(kept, entries[i+1:]...)
			r.s.approvals[orderID] = kept
			return true, nil
		}
	}
	return false, nil
}

func (r *OrderHistoryRepository) DeleteByOrderID(_ context.Context, orderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.statusHistory, orderID)
	delete(r.s.approvals, orderID)
	return nil
}

type OrderItemRepository struct{ s *Store }

var _ interfaces.IOrderItemRepository = (*OrderItemRepository)(nil)

func NewOrderItemRepository(s *Store) *OrderItemRepository {
	return &OrderItemRepository{s: s}
}

func (r *OrderItemRepository) Create(_ context.Context, item entities.ServiceOrderItem) (entities.ServiceOrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.OrderID] = append(r.s.items[item.OrderID], item)
	return item, nil
}

func (r *OrderItemRepository) ListByOrderID(_ context.Context, orderID string) ([]entities.ServiceOrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneSlice(r.s.items[orderID]), nil
}

func (r *OrderItemRepository) DeleteByOrderID(_ context.Context, orderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.items, orderID)
	return nil
}

type OrderMessageRepository struct{ s *Store }

var _ interfaces.IOrderMessageRepository = (*OrderMessageRepository)(nil)

func NewOrderMessageRepository(s *Store) *OrderMessageRepository {
	return &OrderMessageRepository{s: s}
}

// Append is idempotent on msg.ID.
func (r *OrderMessageRepository) Append(_ context.Context, msg entities.OrderMessage) (entities.OrderMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.messages[msg.OrderID] {
		if existing.ID == msg.ID {
			return existing, nil
		}
	}
	r.s.messages[msg.OrderID] = append(r.s.messages[msg.OrderID], msg)
	return msg, nil
}

func (r *OrderMessageRepository) ListByOrderID(_ context.Context, orderID string) ([]entities.OrderMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneSlice(r.s.messages[orderID]), nil
}

func (r *OrderMessageRepository) DeleteByOrderID(_ context.Context, orderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.messages, orderID)
	return nil
}

type OutboxRepository struct{ s *Store }

var _ interfaces.IOutboxRepository = (*OutboxRepository)(nil)

func NewOutboxRepository(s *Store) *OutboxRepository {
	return &OutboxRepository{s: s}
}

func (r *OutboxRepository) Enqueue(_ context.Context, msg entities.OutboxMessage) (entities.OutboxMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.outbox[msg.ID]; exists {
		return entities.OutboxMessage{}, fmt.Errorf("outbox message %s already exists", msg.ID)
	}
	r.s.outbox[msg.ID] = msg
	return msg, nil
}

func (r *OutboxRepository) ListPending(_ context.Context, limit, maxAttempts int) ([]entities.OutboxMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.OutboxMessage, 0)
	for _, msg := range sortedOutbox(r.s.outbox) {
		if msg.Status == entities.OutboxStatusSent || msg.Attempts >= maxAttempts {
			continue
		}
		out = append(out, msg)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(_ context.Context, id string) error {
	return r.mark(id, entities.OutboxStatusSent, "")
}

func (r *OutboxRepository) MarkFailed(_ context.Context, id string, reason string) error {
	return r.mark(id, entities.OutboxStatusFailed, reason)
}

func (r *OutboxRepository) mark(id string, status entities.OutboxStatus, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	msg, ok := r.s.outbox[id]
	if !ok {
		return fmt.Errorf("outbox message %s not found", id)
	}
	msg.Status = status
	msg.Attempts++
	msg.LastError = reason
	msg.UpdatedAt = time.Now().UTC()
	r.s.outbox[id] = msg
	return nil
}

// Get returns a copy of one outbox message.
func (r *OutboxRepository) Get(id string) (entities.OutboxMessage, bool) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	msg, ok := r.s.outbox[id]
	return msg, ok
}

type SettingsRepository struct{ s *Store }

var _ interfaces.ISettingsRepository = (*SettingsRepository)(nil)

func NewSettingsRepository(s *Store) *SettingsRepository {
	return &SettingsRepository{s: s}
}

func (r *SettingsRepository) GetNotificationSettings(_ context.Context) (entities.NotificationSettings, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.settings == nil {
		return entities.NotificationSettings{}, false, nil
	}
	out := *r.s.settings
	out.Templates = cloneTemplates(out.Templates)
	return out, true, nil
}

func (r *SettingsRepository) SaveNotificationSettings(_ context.Context, settings entities.NotificationSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	settings.Templates = cloneTemplates(settings.Templates)
	r.s.settings = &settings
	return nil
}

type ProfileRepository struct{ s *Store }

var _ interfaces.IProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepository(s *Store) *ProfileRepository {
	return &ProfileRepository{s: s}
}

func (r *ProfileRepository) Create(_ context.Context, p entities.Profile) (entities.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.profiles[p.ID]; exists {
		return entities.Profile{}, fmt.Errorf("profile %s already exists", p.ID)
	}
	r.s.profiles[p.ID] = p
	return p, nil
}

func (r *ProfileRepository) GetByID(_ context.Context, id string) (entities.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.profiles[id], nil
}

type BillingPaymentRepository struct{ s *Store }

var _ interfaces.IBillingPaymentRepository = (*BillingPaymentRepository)(nil)

func NewBillingPaymentRepository(s *Store) *BillingPaymentRepository {
	return &BillingPaymentRepository{s: s}
}

func (r *BillingPaymentRepository) Create(_ context.Context, p entities.BillingPayment) (entities.BillingPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.payments[p.ID]; exists {
		return entities.BillingPayment{}, fmt.Errorf("payment %s already exists", p.ID)
	}
	r.s.payments[p.ID] = p
	return p, nil
}

func (r *BillingPaymentRepository) GetByID(_ context.Context, id string) (entities.BillingPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.payments[id], nil
}

func (r *BillingPaymentRepository) ListByOrderID(_ context.Context, orderID string) ([]entities.BillingPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.BillingPayment, 0)
	for _, p := range r.s.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
