package memory

import (
	"context"
	"fmt"

	"assistec/internal/domain/entities"
	"assistec/internal/usecase/interfaces"
)

type ServiceOrderRepository struct {
	s *Store
}

var _ interfaces.IServiceOrderRepository = (*ServiceOrderRepository)(nil)

func NewServiceOrderRepository(s *Store) *ServiceOrderRepository {
	return &ServiceOrderRepository{s: s}
}

func (r *ServiceOrderRepository) NextOrderNumber(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orderSeq++
	return r.s.orderSeq, nil
}

func (r *ServiceOrderRepository) Create(_ context.Context, order entities.ServiceOrder, entry entities.StatusHistoryEntry) (entities.ServiceOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.orders[order.ID]; exists {
		return entities.ServiceOrder{}, fmt.Errorf("service order %s already exists", order.ID)
	}
	r.s.orders[order.ID] = order
	r.s.statusHistory[order.ID] = append(r.s.statusHistory[order.ID], entry)
	return order, nil
}

func (r *ServiceOrderRepository) GetByID(_ context.Context, id string) (entities.ServiceOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.orders[id], nil
}

func (r *ServiceOrderRepository) GetByApprovalToken(_ context.Context, token string) (entities.ServiceOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.byTokenLocked(token), nil
}

func (r *ServiceOrderRepository) byTokenLocked(token string) entities.ServiceOrder {
	if token == "" {
		return entities.ServiceOrder{}
	}
	for _, o := range r.s.orders {
		if o.ApprovalToken == token {
			return o
		}
	}
	return entities.ServiceOrder{}
}

func (r *ServiceOrderRepository) SaveTransition(_ context.Context, id string, patch entities.OrderPatch, entry entities.StatusHistoryEntry) (entities.ServiceOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return entities.ServiceOrder{}, nil
	}
	if !patch.Guard.Holds(o) {
		return entities.ServiceOrder{}, interfaces.ErrCostsChanged
	}
	o = patch.Apply(o)
	r.s.orders[id] = o
	r.s.statusHistory[id] = append(r.s.statusHistory[id], entry)
	return o, nil
}

func (r *ServiceOrderRepository) SaveDiscount(_ context.Context, id string, patch entities.OrderPatch) (entities.ServiceOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return entities.ServiceOrder{}, nil
	}
	if !patch.Guard.Holds(o) {
		return entities.ServiceOrder{}, interfaces.ErrCostsChanged
	}
	o = patch.Apply(o)
	r.s.orders[id] = o
	return o, nil
}

func (r *ServiceOrderRepository) SaveApproval(_ context.Context, token string, patch entities.OrderPatch, approval entities.ApprovalHistoryEntry, entry entities.StatusHistoryEntry) (entities.ServiceOrder, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o := r.byTokenLocked(token)
	if !awaitingDecision(o) {
		return o, false, nil
	}
	if !patch.Guard.Holds(o) {
		return entities.ServiceOrder{}, false, interfaces.ErrCostsChanged
	}
	o = patch.Apply(o)
	r.s.orders[o.ID] = o
	r.s.approvals[o.ID] = append(r.s.approvals[o.ID], approval)
	r.s.statusHistory[o.ID] = append(r.s.statusHistory[o.ID], entry)
	return o, true, nil
}

func (r *ServiceOrderRepository) SaveRejection(_ context.Context, token string, patch entities.OrderPatch, entry entities.StatusHistoryEntry) (entities.ServiceOrder, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o := r.byTokenLocked(token)
	if !awaitingDecision(o) {
		return o, false, nil
	}
	if !patch.Guard.Holds(o) {
		return entities.ServiceOrder{}, false, interfaces.ErrCostsChanged
	}
	o = patch.Apply(o)
	r.s.orders[o.ID] = o
	r.s.statusHistory[o.ID] = append(r.s.statusHistory[o.ID], entry)
	return o, true, nil
}

func (r *ServiceOrderRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.orders, id)
	return nil
}

func awaitingDecision(o entities.ServiceOrder) bool {
	return o.ID != "" && !o.BudgetApproved && o.Status == entities.OrderStatusAwaitingApproval
}
