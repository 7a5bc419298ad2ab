package entities

import "time"

// OrderStatus is the lifecycle position of a service order (ordem de serviço).
type OrderStatus string

const (
	OrderStatusReceived         OrderStatus = "received"
	OrderStatusAnalyzing        OrderStatus = "analyzing"
	OrderStatusAwaitingApproval OrderStatus = "awaiting_approval"
	OrderStatusApproved         OrderStatus = "approved"
	OrderStatusNotApproved      OrderStatus = "not_approved"
	OrderStatusInRepair         OrderStatus = "in_repair"
	OrderStatusAwaitingParts    OrderStatus = "awaiting_parts"
	OrderStatusReadyForPickup   OrderStatus = "ready_for_pickup"
	OrderStatusCompleted        OrderStatus = "completed"
)

var orderStatuses = []OrderStatus{
	OrderStatusReceived,
	OrderStatusAnalyzing,
	OrderStatusAwaitingApproval,
	OrderStatusApproved,
	OrderStatusNotApproved,
	OrderStatusInRepair,
	OrderStatusAwaitingParts,
	OrderStatusReadyForPickup,
	OrderStatusCompleted,
}

// OrderStatuses returns every known status in lifecycle order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

func (s OrderStatus) Valid() bool {
	for _, known := range orderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ServiceOrder is a repair order for one client.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (approval_token-index): approval_token
//
// Cost fields are nil until a budget is issued. TotalCost caches
// max(labor+parts-discount, 0) and is rewritten by every cost mutation.
type ServiceOrder struct {
	ID            string      `json:"id"`
	OrderNumber   int64       `json:"order_number"`
	ClientID      string      `json:"client_id"`
	Equipment     string      `json:"equipment"`
	Brand         string      `json:"brand,omitempty"`
	Model         string      `json:"model,omitempty"`
	SerialNumber  string      `json:"serial_number,omitempty"`
	ReportedIssue string      `json:"reported_issue,omitempty"`
	Status        OrderStatus `json:"status"`

	LaborCost      *float64 `json:"labor_cost"`
	PartsCost      *float64 `json:"parts_cost"`
	DiscountAmount *float64 `json:"discount_amount"`
	DiscountReason *string  `json:"discount_reason"`
	TotalCost      *float64 `json:"total_cost"`

	ApprovalToken  string     `json:"-"`
	BudgetApproved bool       `json:"budget_approved"`
	ApprovedAt     *time.Time `json:"approved_at"`

	EntryDate           time.Time  `json:"entry_date"`
	EstimatedCompletion *time.Time `json:"estimated_completion"`
	CompletedAt         *time.Time `json:"completed_at"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Budget computes the live budget from the order's current cost fields.
func (o ServiceOrder) Budget() Budget {
	return ComputeBudget(deref(o.LaborCost), deref(o.PartsCost), deref(o.DiscountAmount))
}

// OrderPatch is a partial update of a ServiceOrder. Nil fields are left as is.
type OrderPatch struct {
	Status         *OrderStatus
	LaborCost      *float64
	PartsCost      *float64
	DiscountAmount *float64
	DiscountReason *string
	// ClearDiscountReason removes the stored reason; wins over DiscountReason.
	ClearDiscountReason bool
	TotalCost           *float64
	ApprovalToken       *string
	BudgetApproved      *bool
	ApprovedAt          *time.Time
	// ClearApprovedAt removes approved_at; wins over ApprovedAt.
	ClearApprovedAt bool
	CompletedAt     *time.Time
	UpdatedAt       time.Time
	// Guard, when set, makes the write conditional on the stored cost
	// figures still being the ones the patch was computed from.
	Guard *CostGuard
}

// CostGuard pins the cost figures a patch was planned against.
type CostGuard struct {
	LaborCost      *float64
	PartsCost      *float64
	DiscountAmount *float64
}

// GuardCosts captures o's current cost figures.
func GuardCosts(o ServiceOrder) *CostGuard {
	return &CostGuard{
		LaborCost:      copyFloat(o.LaborCost),
		PartsCost:      copyFloat(o.PartsCost),
		DiscountAmount: copyFloat(o.DiscountAmount),
	}
}

// Holds reports whether o still carries the guarded figures. A nil guard
// always holds.
func (g *CostGuard) Holds(o ServiceOrder) bool {
	if g == nil {
		return true
	}
	return sameFloat(g.LaborCost, o.LaborCost) &&
		sameFloat(g.PartsCost, o.PartsCost) &&
		sameFloat(g.DiscountAmount, o.DiscountAmount)
}

// Apply returns a copy of o with the patch applied.
func (p OrderPatch) Apply(o ServiceOrder) ServiceOrder {
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.LaborCost != nil {
		o.LaborCost = Float(*p.LaborCost)
	}
	if p.PartsCost != nil {
		o.PartsCost = Float(*p.PartsCost)
	}
	if p.DiscountAmount != nil {
		o.DiscountAmount = Float(*p.DiscountAmount)
	}
	if p.ClearDiscountReason {
		o.DiscountReason = nil
	} else if p.DiscountReason != nil {
		r := *p.DiscountReason
		o.DiscountReason = &r
	}
	if p.TotalCost != nil {
		o.TotalCost = Float(*p.TotalCost)
	}
	if p.ApprovalToken != nil {
		o.ApprovalToken = *p.ApprovalToken
	}
	if p.BudgetApproved != nil {
		o.BudgetApproved = *p.BudgetApproved
	}
	if p.ClearApprovedAt {
		o.ApprovedAt = nil
	} else if p.ApprovedAt != nil {
		t := *p.ApprovedAt
		o.ApprovedAt = &t
	}
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		o.CompletedAt = &t
	}
	if !p.UpdatedAt.IsZero() {
		o.UpdatedAt = p.UpdatedAt
	}
	return o
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to s.
func String(s string) *string { return &s }

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(*v)
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
