package entities

import "time"

// ApprovalRecordVersion distinguishes approval rows written before the
// discount fields existed.
type ApprovalRecordVersion int

const (
	// ApprovalRecordLegacy rows only carry total_cost.
	ApprovalRecordLegacy ApprovalRecordVersion = iota + 1
	// ApprovalRecordCurrent rows carry the full breakdown and total_final_cost.
	ApprovalRecordCurrent
)

// ApprovalHistoryEntry is a snapshot of a budget accepted by the client.
// One is written per successful approval; the consolidated total of an order
// is the sum of all its entries.
//
// Storage model (DynamoDB):
//   - PK: order_id
//   - SK: id (UUIDv7)
type ApprovalHistoryEntry struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	LaborCost      float64   `json:"labor_cost"`
	PartsCost      float64   `json:"parts_cost"`
	SubtotalCost   float64   `json:"subtotal_cost"`
	DiscountAmount float64   `json:"discount_amount"`
	DiscountReason *string   `json:"discount_reason"`
	TotalFinalCost *float64  `json:"total_final_cost"`
	TotalCost      *float64  `json:"total_cost,omitempty"`
	ApprovedAt     time.Time `json:"approved_at"`
	Notes          string    `json:"notes"`
}

func (e ApprovalHistoryEntry) Version() ApprovalRecordVersion {
	if e.TotalFinalCost == nil {
		return ApprovalRecordLegacy
	}
	return ApprovalRecordCurrent
}

// FinalTotal is total_final_cost, or total_cost for legacy rows.
func (e ApprovalHistoryEntry) FinalTotal() float64 {
	switch e.Version() {
	case ApprovalRecordCurrent:
		return *e.TotalFinalCost
	default:
		return deref(e.TotalCost)
	}
}

// ConsolidatedTotal sums the final totals of every approval entry.
func ConsolidatedTotal(entries []ApprovalHistoryEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.FinalTotal()
	}
	return RoundCents(sum)
}
