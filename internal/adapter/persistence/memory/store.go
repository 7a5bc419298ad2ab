// Package memory keeps every collection in process memory.
//
// It backs storage.driver=memory (local runs without DynamoDB) and the use
// case tests. All repositories created from one Store share a single lock, so
// the conditional writes behave like the DynamoDB transactions they replace.
package memory

import (
	"sort"
	"sync"

	"assistec/internal/domain/entities"
)

type Store struct {
	mu sync.Mutex

	orderSeq      int64
	orders        map[string]entities.ServiceOrder
	statusHistory map[string][]entities.StatusHistoryEntry
	approvals     map[string][]entities.ApprovalHistoryEntry
	items         map[string][]entities.ServiceOrderItem
	messages      map[string][]entities.OrderMessage
	outbox        map[string]entities.OutboxMessage
	settings      *entities.NotificationSettings
	profiles      map[string]entities.Profile
	payments      map[string]entities.BillingPayment
}

func NewStore() *Store {
	return &Store{
		orders:        map[string]entities.ServiceOrder{},
		statusHistory: map[string][]entities.StatusHistoryEntry{},
		approvals:     map[string][]entities.ApprovalHistoryEntry{},
		items:         map[string][]entities.ServiceOrderItem{},
		messages:      map[string][]entities.OrderMessage{},
		outbox:        map[string]entities.OutboxMessage{},
		profiles:      map[string]entities.Profile{},
		payments:      map[string]entities.BillingPayment{},
	}
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneTemplates(in map[entities.TemplateKey]string) map[entities.TemplateKey]string {
	if in == nil {
		return nil
	}
	out := make(map[entities.TemplateKey]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func sortedOutbox(m map[string]entities.OutboxMessage) []entities.OutboxMessage {
	out := make([]entities.OutboxMessage, 0, len(m))
	for _, msg := range m {
		out = append(out, msg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
