package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"assistec/internal/domain/entities"
	"assistec/internal/domain/lifecycle"
	"assistec/internal/pkg/logger"
	"assistec/internal/usecase/interfaces"
)

// ErrBudgetAlreadyApproved is returned when rejecting a budget the client already accepted.
var ErrBudgetAlreadyApproved = lifecycle.ErrAlreadyApproved

// IApprovalUseCase covers the public approval link and the approval log.
type IApprovalUseCase interface {
	Resolve(ctx context.Context, token string) (ApprovalSnapshot, error)
	Approve(ctx context.Context, token string) (ApprovalResult, error)
	Reject(ctx context.Context, token string) (ApprovalResult, error)
	ListApprovals(ctx context.Context, orderID string) (ApprovalSummary, error)
	ConsolidatedTotal(ctx context.Context, orderID string) (float64, error)
	DeleteApprovalEntry(ctx context.Context, orderID, entryID string) error
}

// ApprovalSnapshot is what the public approval page shows. Figures are live.
type ApprovalSnapshot struct {
	Order      entities.ServiceOrder
	ClientName string
	Budget     entities.Budget
	// AlreadyApproved: show the success state instead of the buttons.
	AlreadyApproved bool
	// AwaitingDecision: approve and reject are available.
	AwaitingDecision bool
}

// ApprovalResult is the outcome of a client decision. Applied is false when
// the call was an idempotent repeat.
type ApprovalResult struct {
	Snapshot ApprovalSnapshot
	Applied  bool
	EffectOutcome
}

type ApprovalSummary struct {
	Entries           []entities.ApprovalHistoryEntry
	ConsolidatedTotal float64
}

type ApprovalDeps struct {
	Orders     interfaces.IServiceOrderRepository
	History    interfaces.IOrderHistoryRepository
	Profiles   interfaces.IProfileRepository
	Settings   ISettingsUseCase
	Dispatcher INotificationDispatcher
	Machine    *lifecycle.Machine
	// PublicOrigin is the base URL of approval links.
	PublicOrigin string
}

type ApprovalUseCase struct {
	orders   interfaces.IServiceOrderRepository
	history  interfaces.IOrderHistoryRepository
	profiles interfaces.IProfileRepository
	machine  *lifecycle.Machine
	effects  effectRunner
}

var _ IApprovalUseCase = (*ApprovalUseCase)(nil)

func NewApprovalUseCase(d ApprovalDeps) *ApprovalUseCase {
	if d.Machine == nil {
		d.Machine = lifecycle.New()
	}
	return &ApprovalUseCase{
		orders:   d.Orders,
		history:  d.History,
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

func (u *ApprovalUseCase) Resolve(ctx context.Context, token string) (ApprovalSnapshot, error) {
	order, err := u.byToken(ctx, token)
	if err != nil {
		return ApprovalSnapshot{}, err
	}
	return u.snapshot(ctx, order), nil
}

// Approve records the client's acceptance of the live budget. At most one
// approval entry is written per issued token: a repeated or concurrent call
// finds budget_approved already set and returns success without effects.
// If the costs change between the read and the write, the live budget is
// read and planned again so the entry never records superseded figures.
func (u *ApprovalUseCase) Approve(ctx context.Context, token string) (ApprovalResult, error) {
	var (
		order   entities.ServiceOrder
		plan    lifecycle.ApprovalPlan
		updated entities.ServiceOrder
		applied bool
	)
	err := retryOnCostChange(ctx, func() error {
		var err error
		if order, err = u.byToken(ctx, token); err != nil {
			return err
		}
		if order.BudgetApproved {
			return nil
		}
		if plan, err = u.machine.PlanApproval(order); err != nil {
			return err
		}
		updated, applied, err = u.orders.SaveApproval(ctx, order.ApprovalToken, plan.Patch, plan.Approval, plan.History)
		if err != nil && !isRetryableWrite(err) {
			return logPersistenceError(&PersistenceError{
				Op: "approve", OrderID: order.ID, Status: entities.OrderStatusInRepair, At: plan.History.CreatedAt, Err: err,
			})
		}
		return err
	})
	if err != nil {
		return ApprovalResult{}, err
	}
	if order.BudgetApproved {
		logger.Info("approval repeated", zap.String("order_id", order.ID))
		return ApprovalResult{Snapshot: u.snapshot(ctx, order)}, nil
	}
	if !applied {
		return u.settleLostRace(ctx, order.ApprovalToken, func(cur entities.ServiceOrder) error {
			if cur.BudgetApproved {
				return nil
			}
			return lifecycle.ErrNotAwaiting
		})
	}

	logger.Info("budget approved by client",
		zap.String("order_id", updated.ID),
		zap.Float64("total_final_cost", plan.Approval.FinalTotal()),
	)
	return ApprovalResult{
		Snapshot:      u.snapshot(ctx, updated),
		Applied:       true,
		EffectOutcome: u.effects.run(ctx, updated, plan.Effects),
	}, nil
}

// Reject sends the order back to analyzing. No approval entry is written.
// Rejecting twice is a no-op; rejecting an approved budget is an error.
func (u *ApprovalUseCase) Reject(ctx context.Context, token string) (ApprovalResult, error) {
	order, err := u.byToken(ctx, token)
	if err != nil {
		return ApprovalResult{}, err
	}

	plan, err := u.machine.PlanRejection(order)
	switch {
	case errors.Is(err, lifecycle.ErrNotAwaiting) && order.Status == entities.OrderStatusAnalyzing:
		logger.Info("rejection repeated", zap.String("order_id", order.ID))
		return ApprovalResult{Snapshot: u.snapshot(ctx, order)}, nil
	case err != nil:
		return ApprovalResult{}, err
	}

	updated, applied, err := u.orders.SaveRejection(ctx, order.ApprovalToken, plan.Patch, plan.History)
	if err != nil {
		return ApprovalResult{}, logPersistenceError(&PersistenceError{
			Op: "reject", OrderID: order.ID, Status: entities.OrderStatusAnalyzing, At: plan.History.CreatedAt, Err: err,
		})
	}
	if !applied {
		return u.settleLostRace(ctx, order.ApprovalToken, func(cur entities.ServiceOrder) error {
			switch {
			case cur.BudgetApproved:
				return ErrBudgetAlreadyApproved
			case cur.Status == entities.OrderStatusAnalyzing:
				return nil
			}
			return lifecycle.ErrNotAwaiting
		})
	}

	logger.Info("budget rejected by client", zap.String("order_id", updated.ID))
	return ApprovalResult{
		Snapshot:      u.snapshot(ctx, updated),
		Applied:       true,
		EffectOutcome: u.effects.run(ctx, updated, plan.Effects),
	}, nil
}

// settleLostRace explains a conditional write that matched nothing: another
// request decided first, or a new budget replaced the token. outcome returns
// nil when the current state is what the caller asked for.
func (u *ApprovalUseCase) settleLostRace(ctx context.Context, token string, outcome func(entities.ServiceOrder) error) (ApprovalResult, error) {
	current, err := u.orders.GetByApprovalToken(ctx, token)
	if err != nil {
		return ApprovalResult{}, err
	}
	if current.ID == "" {
		return ApprovalResult{}, ErrApprovalNotFound
	}
	if err := outcome(current); err != nil {
		return ApprovalResult{}, err
	}
	logger.Info("approval decision already settled", zap.String("order_id", current.ID))
	return ApprovalResult{Snapshot: u.snapshot(ctx, current)}, nil
}

func (u *ApprovalUseCase) ListApprovals(ctx context.Context, orderID string) (ApprovalSummary, error) {
	if err := u.ensureOrder(ctx, orderID); err != nil {
		return ApprovalSummary{}, err
	}
	entries, err := u.history.ListApprovalHistory(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return ApprovalSummary{}, err
	}
	return ApprovalSummary{Entries: entries, ConsolidatedTotal: entities.ConsolidatedTotal(entries)}, nil
}

// ConsolidatedTotal is computed from the approval log on every call.
func (u *ApprovalUseCase) ConsolidatedTotal(ctx context.Context, orderID string) (float64, error) {
	s, err := u.ListApprovals(ctx, orderID)
	if err != nil {
		return 0, err
	}
	return s.ConsolidatedTotal, nil
}

// DeleteApprovalEntry is an admin correction. Other entries are untouched.
func (u *ApprovalUseCase) DeleteApprovalEntry(ctx context.Context, orderID, entryID string) error {
	if err := u.ensureOrder(ctx, orderID); err != nil {
		return err
	}
	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return ErrApprovalEntryNotFound
	}
	found, err := u.history.DeleteApprovalEntry(ctx, strings.TrimSpace(orderID), entryID)
	if err != nil {
		return logPersistenceError(&PersistenceError{Op: "delete approval entry", OrderID: orderID, At: u.machine.Now(), Err: err})
	}
	if !found {
		return ErrApprovalEntryNotFound
	}
	logger.Info("approval entry deleted", zap.String("order_id", orderID), zap.String("entry_id", entryID))
	return nil
}

func (u *ApprovalUseCase) byToken(ctx context.Context, token string) (entities.ServiceOrder, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return entities.ServiceOrder{}, ErrApprovalNotFound
	}
	order, err := u.orders.GetByApprovalToken(ctx, token)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if order.ID == "" {
		return entities.ServiceOrder{}, ErrApprovalNotFound
	}
	return order, nil
}

func (u *ApprovalUseCase) ensureOrder(ctx context.Context, orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ErrInvalidOrderID
	}
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.ID == "" {
		return ErrOrderNotFound
	}
	return nil
}

func (u *ApprovalUseCase) snapshot(ctx context.Context, order entities.ServiceOrder) ApprovalSnapshot {
	name := entities.DefaultClientName
	if u.profiles != nil && order.ClientID != "" {
		if p, err := u.profiles.GetByID(ctx, order.ClientID); err == nil {
			name = p.DisplayName()
		}
	}
	return ApprovalSnapshot{
		Order:            order,
		ClientName:       name,
		Budget:           order.Budget(),
		AlreadyApproved:  order.BudgetApproved,
		AwaitingDecision: !order.BudgetApproved && order.Status == entities.OrderStatusAwaitingApproval,
	}
}
