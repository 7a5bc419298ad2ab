package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range OrderStatuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("cancelled").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderPatch_Apply(t *testing.T) {
	approvedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	o := ServiceOrder{
		ID:             "os-1",
		Status:         OrderStatusAwaitingApproval,
		DiscountReason: String("cliente antigo"),
		ApprovedAt:     &approvedAt,
		BudgetApproved: true,
	}

	status := OrderStatusAwaitingApproval
	approved := false
	patched := OrderPatch{
		Status:              &status,
		LaborCost:           Float(150),
		PartsCost:           Float(50),
		TotalCost:           Float(200),
		ApprovalToken:       String("tok"),
		BudgetApproved:      &approved,
		ClearApprovedAt:     true,
		ApprovedAt:          &approvedAt,
		ClearDiscountReason: true,
	}.Apply(o)

	assert.Equal(t, 200.0, *patched.TotalCost)
	assert.Equal(t, "tok", patched.ApprovalToken)
	assert.False(t, patched.BudgetApproved)
	assert.Nil(t, patched.ApprovedAt)
	assert.Nil(t, patched.DiscountReason)
	// original untouched
	assert.True(t, o.BudgetApproved)
	assert.NotNil(t, o.ApprovedAt)
}

func TestServiceOrder_BudgetUsesLiveFields(t *testing.T) {
	o := ServiceOrder{LaborCost: Float(150), PartsCost: Float(50), DiscountAmount: Float(20)}
	b := o.Budget()
	assert.Equal(t, 200.0, b.Subtotal)
	assert.Equal(t, 180.0, b.Total)
	assert.True(t, b.HasDiscount())

	assert.Equal(t, Budget{}, ServiceOrder{}.Budget())
}

func TestCostGuard_Holds(t *testing.T) {
	read := ServiceOrder{LaborCost: Float(150), PartsCost: Float(50)}
	guard := GuardCosts(read)

	assert.True(t, guard.Holds(read))

	discounted := read
	discounted.DiscountAmount = Float(20)
	assert.False(t, guard.Holds(discounted), "discount added after read")

	requoted := read
	requoted.LaborCost = Float(180)
	assert.False(t, guard.Holds(requoted))

	*read.LaborCost = 999
	assert.True(t, guard.Holds(ServiceOrder{LaborCost: Float(150), PartsCost: Float(50)}), "guard keeps its own copy")

	var none *CostGuard
	assert.True(t, none.Holds(discounted))
}

func TestProfile_DisplayName(t *testing.T) {
	assert.Equal(t, "Cliente", Profile{}.DisplayName())
	assert.Equal(t, "Cliente", Profile{Name: "   "}.DisplayName())
	assert.Equal(t, "Ana", Profile{Name: " Ana "}.DisplayName())
}
