// Package lifecycle holds the service-order state machine.
//
// Planning is pure: every function takes the current order and returns the
// patch, the history entry and the secondary effects to perform. Persisting
// and dispatching them is the caller's job.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"assistec/internal/domain/entities"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidStatus   = fmt.Errorf("%w: invalid status", ErrValidation)
	ErrInvalidAmount   = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrAlreadyApproved = errors.New("budget already approved")
	ErrNotAwaiting     = errors.New("budget is not awaiting a decision")
)

const (
	IntakeNotes    = "Ordem de serviço criada"
	ApprovalNotes  = "Aprovado pelo cliente via link de aprovação"
	RejectionNotes = "Orçamento recusado pelo cliente via link de aprovação"
)

// EffectKind names a secondary effect of a transition.
type EffectKind string

const (
	// EffectClientTemplate renders Template for the client: chat message plus
	// an external messaging link.
	EffectClientTemplate EffectKind = "client_template"
	// EffectStaffAlert renders Template and sends it to the shop's number.
	EffectStaffAlert EffectKind = "staff_alert"
)

type Effect struct {
	Kind     EffectKind
	Template entities.TemplateKey
	Notes    string
}

// Plan is the outcome of a transition: primary writes plus secondary effects.
type Plan struct {
	Patch   entities.OrderPatch
	History entities.StatusHistoryEntry
	Effects []Effect
	// Order is the order as it will look once Patch is applied.
	Order entities.ServiceOrder
}

// ApprovalPlan adds the approval snapshot to a Plan.
type ApprovalPlan struct {
	Plan
	Approval entities.ApprovalHistoryEntry
}

// TransitionCommand is an admin request to move an order to Status.
// LaborCost and PartsCost are only read for awaiting_approval.
type TransitionCommand struct {
	Status    entities.OrderStatus
	Notes     *string
	ActorID   *string
	LaborCost *float64
	PartsCost *float64
}

// IntakeCommand describes a new order at reception.
type IntakeCommand struct {
	ClientID            string
	Equipment           string
	Brand               string
	Model               string
	SerialNumber        string
	ReportedIssue       string
	EstimatedCompletion *time.Time
	ActorID             *string
}

type Option func(*Machine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithTokenSource overrides approval token generation.
func WithTokenSource(f func() string) Option {
	return func(m *Machine) { m.newToken = f }
}

// WithIDSource overrides entity id generation.
func WithIDSource(f func() string) Option {
	return func(m *Machine) { m.newID = f }
}

type Machine struct {
	now      func() time.Time
	newToken func() string
	newID    func() string
}

func New(opts ...Option) *Machine {
	m := &Machine{
		now:      func() time.Time { return time.Now().UTC() },
		newToken: uuid.NewString,
		newID:    newSortableID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewID returns a time-ordered identifier.
func (m *Machine) NewID() string {
	return m.newID()
}

// Now returns the machine clock.
func (m *Machine) Now() time.Time {
	return m.now()
}

func newSortableID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// PlanIntake builds a new order in status received and its first history entry.
func (m *Machine) PlanIntake(id string, orderNumber int64, cmd IntakeCommand) (entities.ServiceOrder, entities.StatusHistoryEntry) {
	now := m.now()
	order := entities.ServiceOrder{
		ID:                  id,
		OrderNumber:         orderNumber,
		ClientID:            strings.TrimSpace(cmd.ClientID),
		Equipment:           strings.TrimSpace(cmd.Equipment),
		Brand:               strings.TrimSpace(cmd.Brand),
		Model:               strings.TrimSpace(cmd.Model),
		SerialNumber:        strings.TrimSpace(cmd.SerialNumber),
		ReportedIssue:       strings.TrimSpace(cmd.ReportedIssue),
		Status:              entities.OrderStatusReceived,
		EntryDate:           now,
		EstimatedCompletion: cmd.EstimatedCompletion,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	return order, m.historyEntry(id, entities.OrderStatusReceived, entities.String(IntakeNotes), cmd.ActorID, now)
}

// PlanTransition validates cmd against order and returns what to persist.
func (m *Machine) PlanTransition(order entities.ServiceOrder, cmd TransitionCommand) (Plan, error) {
	if !cmd.Status.Valid() {
		return Plan{}, fmt.Errorf("%w: %q", ErrInvalidStatus, cmd.Status)
	}

	now := m.now()
	status := cmd.Status
	patch := entities.OrderPatch{Status: &status, UpdatedAt: now}

	rule := ruleFor(cmd.Status)
	if rule.apply != nil {
		if err := rule.apply(m, order, cmd, now, &patch); err != nil {
			return Plan{}, err
		}
	}

	plan := Plan{
		Patch:   patch,
		History: m.historyEntry(order.ID, cmd.Status, normalizeNotes(cmd.Notes), cmd.ActorID, now),
		Order:   patch.Apply(order),
	}
	if rule.template != "" {
		plan.Effects = append(plan.Effects, Effect{
			Kind:     EffectClientTemplate,
			Template: rule.template,
			Notes:    notesText(cmd.Notes),
		})
	}
	return plan, nil
}

// PlanDiscount recomputes the total against the order's current labor and
// parts costs. Status, history and approval token are untouched.
func (m *Machine) PlanDiscount(order entities.ServiceOrder, amount float64, reason *string) (entities.OrderPatch, error) {
	if !entities.ValidAmount(amount) {
		return entities.OrderPatch{}, fmt.Errorf("%w: discount %v", ErrInvalidAmount, amount)
	}
	amount = entities.RoundCents(amount)
	live := order.Budget()
	total := entities.ComputeBudget(live.LaborCost, live.PartsCost, amount).Total

	patch := entities.OrderPatch{
		DiscountAmount: entities.Float(amount),
		TotalCost:      entities.Float(total),
		UpdatedAt:      m.now(),
		Guard:          entities.GuardCosts(order),
	}
	if r := normalizeNotes(reason); r != nil {
		patch.DiscountReason = r
	} else {
		patch.ClearDiscountReason = true
	}
	return patch, nil
}

// PlanApproval snapshots the live budget, marks it approved and moves the
// order to in_repair. Only a budget still awaiting approval can be approved.
// total_cost is left alone: the patch is guarded on the figures it snapshots,
// so the stored total already matches them when the write commits.
func (m *Machine) PlanApproval(order entities.ServiceOrder) (ApprovalPlan, error) {
	if order.BudgetApproved {
		return ApprovalPlan{}, ErrAlreadyApproved
	}
	if order.Status != entities.OrderStatusAwaitingApproval {
		return ApprovalPlan{}, ErrNotAwaiting
	}

	now := m.now()
	budget := order.Budget()
	approved := true
	status := entities.OrderStatusInRepair
	patch := entities.OrderPatch{
		Status:         &status,
		BudgetApproved: &approved,
		ApprovedAt:     &now,
		UpdatedAt:      now,
		Guard:          entities.GuardCosts(order),
	}

	approval := entities.ApprovalHistoryEntry{
		ID:             m.newID(),
		OrderID:        order.ID,
		LaborCost:      budget.LaborCost,
		PartsCost:      budget.PartsCost,
		SubtotalCost:   budget.Subtotal,
		DiscountAmount: budget.DiscountAmount,
		DiscountReason: order.DiscountReason,
		TotalFinalCost: entities.Float(budget.Total),
		ApprovedAt:     now,
		Notes:          ApprovalNotes,
	}

	return ApprovalPlan{
		Plan: Plan{
			Patch:   patch,
			History: m.historyEntry(order.ID, status, entities.String(ApprovalHistoryNotes(budget)), nil, now),
			Effects: []Effect{{Kind: EffectStaffAlert, Template: entities.TemplateStaffApproval}},
			Order:   patch.Apply(order),
		},
		Approval: approval,
	}, nil
}

// PlanRejection sends the order back to analyzing for a new quote.
func (m *Machine) PlanRejection(order entities.ServiceOrder) (Plan, error) {
	if order.BudgetApproved {
		return Plan{}, ErrAlreadyApproved
	}
	if order.Status != entities.OrderStatusAwaitingApproval {
		return Plan{}, ErrNotAwaiting
	}

	now := m.now()
	approved := false
	status := entities.OrderStatusAnalyzing
	patch := entities.OrderPatch{Status: &status, BudgetApproved: &approved, UpdatedAt: now}
	return Plan{
		Patch:   patch,
		History: m.historyEntry(order.ID, status, entities.String(RejectionNotes), nil, now),
		Order:   patch.Apply(order),
	}, nil
}

// ApprovalHistoryNotes is the timeline note for a client approval.
func ApprovalHistoryNotes(b entities.Budget) string {
	return fmt.Sprintf(
		"Orçamento aprovado pelo cliente. Mão de obra: %s | Peças: %s | Subtotal: %s | Desconto: %s | Total: %s",
		entities.FormatBRL(b.LaborCost),
		entities.FormatBRL(b.PartsCost),
		entities.FormatBRL(b.Subtotal),
		entities.FormatBRL(b.DiscountAmount),
		entities.FormatBRL(b.Total),
	)
}

func (m *Machine) historyEntry(orderID string, status entities.OrderStatus, notes, actorID *string, at time.Time) entities.StatusHistoryEntry {
	return entities.StatusHistoryEntry{
		ID:        m.newID(),
		OrderID:   orderID,
		Status:    status,
		Notes:     notes,
		CreatedBy: actorID,
		CreatedAt: at,
	}
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	n := strings.TrimSpace(*notes)
	if n == "" {
		return nil
	}
	return &n
}

func notesText(notes *string) string {
	if n := normalizeNotes(notes); n != nil {
		return *n
	}
	return ""
}
