package response

import "assistec/internal/usecase"

// ApprovalPageResponse is what the public approval page renders. It never
// carries the token or client contact data.
type ApprovalPageResponse struct {
	OrderNumber      int64          `json:"order_number"`
	ClientName       string         `json:"client_name"`
	Equipment        string         `json:"equipment"`
	Brand            string         `json:"brand,omitempty"`
	Model            string         `json:"model,omitempty"`
	Status           string         `json:"status"`
	Budget           BudgetResponse `json:"budget"`
	DiscountReason   *string        `json:"discount_reason"`
	AlreadyApproved  bool           `json:"already_approved"`
	AwaitingDecision bool           `json:"awaiting_decision"`
}

func FromApprovalSnapshot(s usecase.ApprovalSnapshot) ApprovalPageResponse {
	return ApprovalPageResponse{
		OrderNumber:      s.Order.OrderNumber,
		ClientName:       s.ClientName,
		Equipment:        s.Order.Equipment,
		Brand:            s.Order.Brand,
		Model:            s.Order.Model,
		Status:           string(s.Order.Status),
		Budget:           FromBudget(s.Budget),
		DiscountReason:   s.Order.DiscountReason,
		AlreadyApproved:  s.AlreadyApproved,
		AwaitingDecision: s.AwaitingDecision,
	}
}

// ApprovalDecisionResponse answers approve and reject. Applied is false for
// an idempotent repeat.
type ApprovalDecisionResponse struct {
	ApprovalPageResponse
	Applied bool `json:"applied"`
}

func FromApprovalResult(r usecase.ApprovalResult) ApprovalDecisionResponse {
	return ApprovalDecisionResponse{ApprovalPageResponse: FromApprovalSnapshot(r.Snapshot), Applied: r.Applied}
}
