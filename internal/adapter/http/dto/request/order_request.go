package request

import (
	"strings"
	"time"
)

// CreateOrderRequest opens a service order at reception.
type CreateOrderRequest struct {
	ClientID            string     `json:"client_id" binding:"required"`
	Equipment           string     `json:"equipment" binding:"required"`
	Brand               string     `json:"brand"`
	Model               string     `json:"model"`
	SerialNumber        string     `json:"serial_number"`
	ReportedIssue       string     `json:"reported_issue"`
	EstimatedCompletion *time.Time `json:"estimated_completion"`
}

// TransitionRequest moves an order to Status. Costs are read only when the
// target is awaiting_approval.
type TransitionRequest struct {
	Status    string  `json:"status" binding:"required"`
	Notes     *string `json:"notes"`
	LaborCost *Amount `json:"labor_cost"`
	PartsCost *Amount `json:"parts_cost"`
}

func (r TransitionRequest) ResolveStatus() string {
	return strings.ToLower(strings.TrimSpace(r.Status))
}

// ResolveNotes drops blank notes.
func (r TransitionRequest) ResolveNotes() *string {
	if r.Notes == nil {
		return nil
	}
	n := strings.TrimSpace(*r.Notes)
	if n == "" {
		return nil
	}
	return &n
}

type DiscountRequest struct {
	Amount *Amount `json:"discount_amount" binding:"required"`
	Reason *string `json:"discount_reason"`
}

type AddItemRequest struct {
	Equipment     string `json:"equipment" binding:"required"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	SerialNumber  string `json:"serial_number"`
	ReportedIssue string `json:"reported_issue"`
}

// PostMessageRequest is a chat message written from the back-office.
// SenderRole defaults to admin.
type PostMessageRequest struct {
	SenderRole string `json:"sender_role"`
	Body       string `json:"body" binding:"required"`
}

func (r PostMessageRequest) ResolveSenderRole() string {
	if v := strings.ToLower(strings.TrimSpace(r.SenderRole)); v != "" {
		return v
	}
	return "admin"
}
