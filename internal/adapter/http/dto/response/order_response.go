package response

import (
	"time"

	"assistec/internal/domain/entities"
	"assistec/internal/usecase"
)

// BudgetResponse is always computed from the order's current cost fields.
type BudgetResponse struct {
	LaborCost      float64 `json:"labor_cost"`
	PartsCost      float64 `json:"parts_cost"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
}

func FromBudget(b entities.Budget) BudgetResponse {
	return BudgetResponse{
		LaborCost:      b.LaborCost,
		PartsCost:      b.PartsCost,
		Subtotal:       b.Subtotal,
		DiscountAmount: b.DiscountAmount,
		Total:          b.Total,
	}
}

type OrderResponse struct {
	ID                  string         `json:"id"`
	OrderNumber         int64          `json:"order_number"`
	ClientID            string         `json:"client_id"`
	Equipment           string         `json:"equipment"`
	Brand               string         `json:"brand,omitempty"`
	Model               string         `json:"model,omitempty"`
	SerialNumber        string         `json:"serial_number,omitempty"`
	ReportedIssue       string         `json:"reported_issue,omitempty"`
	Status              string         `json:"status"`
	Budget              BudgetResponse `json:"budget"`
	DiscountReason      *string        `json:"discount_reason"`
	BudgetApproved      bool           `json:"budget_approved"`
	ApprovedAt          *time.Time     `json:"approved_at"`
	EntryDate           time.Time      `json:"entry_date"`
	EstimatedCompletion *time.Time     `json:"estimated_completion"`
	CompletedAt         *time.Time     `json:"completed_at"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func FromServiceOrder(o entities.ServiceOrder) OrderResponse {
	return OrderResponse{
		ID:                  o.ID,
		OrderNumber:         o.OrderNumber,
		ClientID:            o.ClientID,
		Equipment:           o.Equipment,
		Brand:               o.Brand,
		Model:               o.Model,
		SerialNumber:        o.SerialNumber,
		ReportedIssue:       o.ReportedIssue,
		Status:              string(o.Status),
		Budget:              FromBudget(o.Budget()),
		DiscountReason:      o.DiscountReason,
		BudgetApproved:      o.BudgetApproved,
		ApprovedAt:          o.ApprovedAt,
		EntryDate:           o.EntryDate,
		EstimatedCompletion: o.EstimatedCompletion,
		CompletedAt:         o.CompletedAt,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

type OrderDetailsResponse struct {
	Order             OrderResponse                   `json:"order"`
	Client            entities.Profile                `json:"client"`
	Items             []entities.ServiceOrderItem     `json:"items"`
	StatusHistory     []entities.StatusHistoryEntry   `json:"status_history"`
	Approvals         []entities.ApprovalHistoryEntry `json:"approvals"`
	ConsolidatedTotal float64                         `json:"consolidated_total"`
}

func FromOrderDetails(d usecase.OrderDetails) OrderDetailsResponse {
	return OrderDetailsResponse{
		Order:             FromServiceOrder(d.Order),
		Client:            d.Client,
		Items:             nonNil(d.Items),
		StatusHistory:     nonNil(d.StatusHistory),
		Approvals:         nonNil(d.Approvals),
		ConsolidatedTotal: d.ConsolidatedTotal,
	}
}

// EffectsResponse reports the notifications of a successful change.
// Warnings never mean the change itself failed.
type EffectsResponse struct {
	ExternalLink string   `json:"external_link,omitempty"`
	Notice       string   `json:"notice,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

func FromEffectOutcome(o usecase.EffectOutcome) EffectsResponse {
	return EffectsResponse{ExternalLink: o.ExternalLink, Notice: o.Notice, Warnings: o.Warnings}
}

type TransitionResponse struct {
	Order OrderResponse `json:"order"`
	EffectsResponse
}

func FromTransitionResult(r usecase.TransitionResult) TransitionResponse {
	return TransitionResponse{Order: FromServiceOrder(r.Order), EffectsResponse: FromEffectOutcome(r.EffectOutcome)}
}

type ApprovalSummaryResponse struct {
	Entries           []entities.ApprovalHistoryEntry `json:"entries"`
	ConsolidatedTotal float64                         `json:"consolidated_total"`
}

func FromApprovalSummary(s usecase.ApprovalSummary) ApprovalSummaryResponse {
	return ApprovalSummaryResponse{Entries: nonNil(s.Entries), ConsolidatedTotal: s.ConsolidatedTotal}
}

// nonNil keeps empty collections as [] in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
