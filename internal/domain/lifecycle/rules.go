package lifecycle

import (
	"fmt"
	"time"

	"assistec/internal/domain/entities"
)

// transitionRule is what entering a status does beyond writing it.
type transitionRule struct {
	// apply adds status-specific fields to the patch.
	apply func(m *Machine, order entities.ServiceOrder, cmd TransitionCommand, now time.Time, patch *entities.OrderPatch) error
	// template is the client message sent on entry, if any.
	template entities.TemplateKey
}

// Any status may be entered from any other: admins use transitions to
// correct mistakes, so only the entry effects are status specific.
var transitionRules = map[entities.OrderStatus]transitionRule{
	entities.OrderStatusAwaitingApproval: {apply: issueBudget, template: entities.TemplateAwaitingApproval},
	entities.OrderStatusReadyForPickup:   {template: entities.TemplateReadyForPickup},
	entities.OrderStatusNotApproved:      {template: entities.TemplateNotApproved},
	entities.OrderStatusCompleted:        {apply: stampCompleted, template: entities.TemplateCompleted},
}

func ruleFor(status entities.OrderStatus) transitionRule {
	return transitionRules[status]
}

// issueBudget stores the quoted costs and issues a fresh approval token,
// which invalidates any token sent before.
func issueBudget(m *Machine, order entities.ServiceOrder, cmd TransitionCommand, now time.Time, patch *entities.OrderPatch) error {
	labor, err := budgetAmount("labor_cost", cmd.LaborCost)
	if err != nil {
		return err
	}
	parts, err := budgetAmount("parts_cost", cmd.PartsCost)
	if err != nil {
		return err
	}

	var discount float64
	if order.DiscountAmount != nil {
		discount = *order.DiscountAmount
	}
	budget := entities.ComputeBudget(labor, parts, discount)

	token := m.newToken()
	for token == order.ApprovalToken {
		token = m.newToken()
	}
	approved := false

	patch.LaborCost = entities.Float(budget.LaborCost)
	patch.PartsCost = entities.Float(budget.PartsCost)
	patch.TotalCost = entities.Float(budget.Total)
	patch.ApprovalToken = &token
	patch.BudgetApproved = &approved
	patch.ClearApprovedAt = true
	patch.Guard = entities.GuardCosts(order)
	return nil
}

func stampCompleted(_ *Machine, _ entities.ServiceOrder, _ TransitionCommand, now time.Time, patch *entities.OrderPatch) error {
	patch.CompletedAt = &now
	return nil
}

func budgetAmount(field string, v *float64) (float64, error) {
	if v == nil {
		return 0, nil
	}
	if !entities.ValidAmount(*v) {
		return 0, fmt.Errorf("%w: %s %v", ErrInvalidAmount, field, *v)
	}
	return *v, nil
}
