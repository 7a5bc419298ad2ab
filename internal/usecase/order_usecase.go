package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"assistec/internal/domain/entities"
	"assistec/internal/domain/lifecycle"
	"assistec/internal/pkg/logger"
	"assistec/internal/usecase/interfaces"
)

// IOrderUseCase is the admin side of the service-order lifecycle.
type IOrderUseCase interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (entities.ServiceOrder, error)
	GetOrder(ctx context.Context, orderID string) (OrderDetails, error)
	Transition(ctx context.Context, orderID string, in TransitionInput) (TransitionResult, error)
	ApplyDiscount(ctx context.Context, orderID string, amount float64, reason *string) (entities.ServiceOrder, error)
	DeleteOrder(ctx context.Context, orderID string, confirm bool) error
	ListStatusHistory(ctx context.Context, orderID string) ([]entities.StatusHistoryEntry, error)
	AddItem(ctx context.Context, orderID string, in AddItemInput) (entities.ServiceOrderItem, error)
	ListItems(ctx context.Context, orderID string) ([]entities.ServiceOrderItem, error)
	PostMessage(ctx context.Context, orderID string, in PostMessageInput) (entities.OrderMessage, error)
	ListMessages(ctx context.Context, orderID string) ([]entities.OrderMessage, error)
}

type (
	CreateOrderInput = lifecycle.IntakeCommand
	TransitionInput  = lifecycle.TransitionCommand
)

type AddItemInput struct {
	Equipment     string
	Brand         string
	Model         string
	SerialNumber  string
	ReportedIssue string
}

type PostMessageInput struct {
	SenderID   *string
	SenderRole entities.SenderRole
	Body       string
}

// OrderDetails is an order with everything the back-office shows next to it.
type OrderDetails struct {
	Order             entities.ServiceOrder
	Budget            entities.Budget
	Client            entities.Profile
	Items             []entities.ServiceOrderItem
	StatusHistory     []entities.StatusHistoryEntry
	Approvals         []entities.ApprovalHistoryEntry
	ConsolidatedTotal float64
}

// TransitionResult is a committed transition plus the outcome of its
// notifications.
type TransitionResult struct {
	Order entities.ServiceOrder
	EffectOutcome
}

// OrderDeps groups the collaborators of OrderUseCase.
type OrderDeps struct {
	Orders     interfaces.IServiceOrderRepository
	History    interfaces.IOrderHistoryRepository
	Items      interfaces.IOrderItemRepository
	Messages   interfaces.IOrderMessageRepository
	Profiles   interfaces.IProfileRepository
	Settings   ISettingsUseCase
	Dispatcher INotificationDispatcher
	Machine    *lifecycle.Machine
	// PublicOrigin is the base URL of approval links.
	PublicOrigin string
}

type OrderUseCase struct {
	orders   interfaces.IServiceOrderRepository
	history  interfaces.IOrderHistoryRepository
	items    interfaces.IOrderItemRepository
	messages interfaces.IOrderMessageRepository
	profiles interfaces.IProfileRepository
	machine  *lifecycle.Machine
	effects  effectRunner
}

var _ IOrderUseCase = (*OrderUseCase)(nil)

func NewOrderUseCase(d OrderDeps) *OrderUseCase {
	if d.Machine == nil {
		d.Machine = lifecycle.New()
	}
	return &OrderUseCase{
		orders:   d.Orders,
		history:  d.History,
		items:    d.Items,
		messages: d.Messages,
		profiles: d.Profiles,
		machine:  d.Machine,
		effects: effectRunner{
			settings:   d.Settings,
			profiles:   d.Profiles,
			dispatcher: d.Dispatcher,
			origin:     d.PublicOrigin,
		},
	}
}

func (u *OrderUseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (entities.ServiceOrder, error) {
	in.ClientID = strings.TrimSpace(in.ClientID)
	in.Equipment = strings.TrimSpace(in.Equipment)
	if in.ClientID == "" {
		return entities.ServiceOrder{}, fmt.Errorf("%w: client_id is required", ErrInvalidOrderInput)
	}
	if in.Equipment == "" {
		return entities.ServiceOrder{}, fmt.Errorf("%w: equipment is required", ErrInvalidOrderInput)
	}

	client, err := u.profiles.GetByID(ctx, in.ClientID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if client.ID == "" {
		return entities.ServiceOrder{}, ErrProfileNotFound
	}

	number, err := u.orders.NextOrderNumber(ctx)
	if err != nil {
		return entities.ServiceOrder{}, &PersistenceError{Op: "allocate order number", At: u.machine.Now(), Err: err}
	}

	order, entry := u.machine.PlanIntake(u.machine.NewID(), number, in)
	created, err := u.orders.Create(ctx, order, entry)
	if err != nil {
		return entities.ServiceOrder{}, u.persistenceFailure("create", order.ID, order.Status, err)
	}
	logger.Info("service order created",
		zap.String("order_id", created.ID),
		zap.Int64("order_number", created.OrderNumber),
		zap.String("client_id", created.ClientID),
	)
	return created, nil
}

func (u *OrderUseCase) GetOrder(ctx context.Context, orderID string) (OrderDetails, error) {
	order, err := u.load(ctx, orderID)
	if err != nil {
		return OrderDetails{}, err
	}

	details := OrderDetails{Order: order, Budget: order.Budget()}
	if details.Client, err = u.profiles.GetByID(ctx, order.ClientID); err != nil {
		return OrderDetails{}, err
	}
	if details.Items, err = u.items.ListByOrderID(ctx, order.ID); err != nil {
		return OrderDetails{}, err
	}
	if details.StatusHistory, err = u.history.ListStatusHistory(ctx, order.ID); err != nil {
		return OrderDetails{}, err
	}
	if details.Approvals, err = u.history.ListApprovalHistory(ctx, order.ID); err != nil {
		return OrderDetails{}, err
	}
	details.ConsolidatedTotal = entities.ConsolidatedTotal(details.Approvals)
	return details, nil
}

// Transition moves an order to in.Status. The order update and its history
// entry are written together; notifications run afterwards and only produce
// warnings.
func (u *OrderUseCase) Transition(ctx context.Context, orderID string, in TransitionInput) (TransitionResult, error) {
	if !in.Status.Valid() {
		return TransitionResult{}, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
	}
	var (
		order   entities.ServiceOrder
		plan    lifecycle.Plan
		updated entities.ServiceOrder
	)
	err := retryOnCostChange(ctx, func() error {
		var err error
		if order, err = u.load(ctx, orderID); err != nil {
			return err
		}
		if plan, err = u.machine.PlanTransition(order, in); err != nil {
			return err
		}
		updated, err = u.orders.SaveTransition(ctx, order.ID, plan.Patch, plan.History)
		if err != nil && !isRetryableWrite(err) {
			return u.persistenceFailure("transition", order.ID, in.Status, err)
		}
		return err
	})
	if errors.Is(err, interfaces.ErrReloadFailed) {
		logger.Warn("transition committed, re-read failed", zap.String("order_id", order.ID), zap.Error(err))
		updated, err = plan.Order, nil
	}
	if err != nil {
		return TransitionResult{}, err
	}
	if updated.ID == "" {
		return TransitionResult{}, ErrOrderNotFound
	}
	logger.Info("service order status changed",
		zap.String("order_id", updated.ID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(updated.Status)),
		zap.Stringp("actor_id", in.ActorID),
	)

	return TransitionResult{
		Order:         updated,
		EffectOutcome: u.effects.run(ctx, updated, plan.Effects),
	}, nil
}

// ApplyDiscount recomputes total_cost against the current labor and parts
// costs. It is not a lifecycle event: no history entry, same token.
func (u *OrderUseCase) ApplyDiscount(ctx context.Context, orderID string, amount float64, reason *string) (entities.ServiceOrder, error) {
	if !entities.ValidAmount(amount) {
		return entities.ServiceOrder{}, fmt.Errorf("%w: discount %v", ErrInvalidAmount, amount)
	}
	var updated entities.ServiceOrder
	err := retryOnCostChange(ctx, func() error {
		order, err := u.load(ctx, orderID)
		if err != nil {
			return err
		}
		patch, err := u.machine.PlanDiscount(order, amount, reason)
		if err != nil {
			return err
		}
		updated, err = u.orders.SaveDiscount(ctx, order.ID, patch)
		if err != nil && !isRetryableWrite(err) {
			return u.persistenceFailure("discount", order.ID, "", err)
		}
		return err
	})
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if updated.ID == "" {
		return entities.ServiceOrder{}, ErrOrderNotFound
	}
	logger.Info("discount applied",
		zap.String("order_id", updated.ID),
		zap.Float64("discount", amount),
		zap.Float64p("total_cost", updated.TotalCost),
	)
	return updated, nil
}

// DeleteOrder removes the order and everything under it. Irreversible, so
// confirm must be true.
func (u *OrderUseCase) DeleteOrder(ctx context.Context, orderID string, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	order, err := u.load(ctx, orderID)
	if err != nil {
		return err
	}

	steps := []struct {
		op string
		fn func(context.Context, string) error
	}{
		{"delete items", u.items.DeleteByOrderID},
		{"delete messages", u.messages.DeleteByOrderID},
		{"delete history", u.history.DeleteByOrderID},
		{"delete order", u.orders.Delete},
	}
	for _, s := range steps {
		if err := s.fn(ctx, order.ID); err != nil {
			return u.persistenceFailure(s.op, order.ID, order.Status, err)
		}
	}
	logger.Info("service order deleted", zap.String("order_id", order.ID), zap.Int64("order_number", order.OrderNumber))
	return nil
}

func (u *OrderUseCase) ListStatusHistory(ctx context.Context, orderID string) ([]entities.StatusHistoryEntry, error) {
	order, err := u.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return u.history.ListStatusHistory(ctx, order.ID)
}

func (u *OrderUseCase) AddItem(ctx context.Context, orderID string, in AddItemInput) (entities.ServiceOrderItem, error) {
	equipment := strings.TrimSpace(in.Equipment)
	if equipment == "" {
		return entities.ServiceOrderItem{}, fmt.Errorf("%w: equipment is required", ErrInvalidOrderInput)
	}
	order, err := u.load(ctx, orderID)
	if err != nil {
		return entities.ServiceOrderItem{}, err
	}
	item := entities.ServiceOrderItem{
		ID:            u.machine.NewID(),
		OrderID:       order.ID,
		Equipment:     equipment,
		Brand:         strings.TrimSpace(in.Brand),
		Model:         strings.TrimSpace(in.Model),
		SerialNumber:  strings.TrimSpace(in.SerialNumber),
		ReportedIssue: strings.TrimSpace(in.ReportedIssue),
		CreatedAt:     u.machine.Now(),
	}
	created, err := u.items.Create(ctx, item)
	if err != nil {
		return entities.ServiceOrderItem{}, u.persistenceFailure("add item", order.ID, "", err)
	}
	return created, nil
}

func (u *OrderUseCase) ListItems(ctx context.Context, orderID string) ([]entities.ServiceOrderItem, error) {
	order, err := u.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return u.items.ListByOrderID(ctx, order.ID)
}

func (u *OrderUseCase) PostMessage(ctx context.Context, orderID string, in PostMessageInput) (entities.OrderMessage, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return entities.OrderMessage{}, fmt.Errorf("%w: empty body", ErrInvalidMessage)
	}
	if !in.SenderRole.Valid() {
		return entities.OrderMessage{}, fmt.Errorf("%w: sender_role %q", ErrInvalidMessage, in.SenderRole)
	}
	order, err := u.load(ctx, orderID)
	if err != nil {
		return entities.OrderMessage{}, err
	}
	msg := entities.OrderMessage{
		ID:         u.machine.NewID(),
		OrderID:    order.ID,
		SenderID:   in.SenderID,
		SenderRole: in.SenderRole,
		Body:       body,
		CreatedAt:  u.machine.Now(),
	}
	created, err := u.messages.Append(ctx, msg)
	if err != nil {
		return entities.OrderMessage{}, u.persistenceFailure("post message", order.ID, "", err)
	}
	return created, nil
}

func (u *OrderUseCase) ListMessages(ctx context.Context, orderID string) ([]entities.OrderMessage, error) {
	order, err := u.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return u.messages.ListByOrderID(ctx, order.ID)
}

func (u *OrderUseCase) load(ctx context.Context, orderID string) (entities.ServiceOrder, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.ServiceOrder{}, ErrInvalidOrderID
	}
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if order.ID == "" {
		return entities.ServiceOrder{}, ErrOrderNotFound
	}
	return order, nil
}

func (u *OrderUseCase) persistenceFailure(op, orderID string, status entities.OrderStatus, err error) error {
	return logPersistenceError(&PersistenceError{Op: op, OrderID: orderID, Status: status, At: u.machine.Now(), Err: err})
}

// maxPlanAttempts bounds how often a write is planned again after its cost
// guard failed.
const maxPlanAttempts = 3

// retryOnCostChange runs attempt again while it fails with ErrCostsChanged.
// attempt must re-read the order and plan from scratch each time.
func retryOnCostChange(ctx context.Context, attempt func() error) error {
	for i := 1; ; i++ {
		err := attempt()
		if !errors.Is(err, interfaces.ErrCostsChanged) {
			return err
		}
		if i == maxPlanAttempts {
			return fmt.Errorf("%w: %w", ErrConcurrentUpdate, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.Info("order costs changed concurrently, planning again", zap.Int("attempt", i))
	}
}

// isRetryableWrite reports store errors that are not persistence failures:
// a guard miss is re-planned and a failed reload still means committed.
func isRetryableWrite(err error) bool {
	return errors.Is(err, interfaces.ErrCostsChanged) || errors.Is(err, interfaces.ErrReloadFailed)
}

func logPersistenceError(perr *PersistenceError) error {
	logger.Error("persistence failure, reconcile manually",
		zap.String("op", perr.Op),
		zap.String("order_id", perr.OrderID),
		zap.String("attempted_status", string(perr.Status)),
		zap.Time("at", perr.At),
		zap.Error(perr.Err),
	)
	return perr
}
