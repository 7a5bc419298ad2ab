package entities

import (
	"math"
	"strconv"
	"strings"
)

// Budget is the computed breakdown of an order's costs.
type Budget struct {
	LaborCost      float64 `json:"labor_cost"`
	PartsCost      float64 `json:"parts_cost"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
}

// ComputeBudget returns subtotal = labor+parts and total = max(subtotal-discount, 0),
// all rounded to cents.
func ComputeBudget(labor, parts, discount float64) Budget {
	subtotal := RoundCents(labor + parts)
	return Budget{
		LaborCost:      RoundCents(labor),
		PartsCost:      RoundCents(parts),
		Subtotal:       subtotal,
		DiscountAmount: RoundCents(discount),
		Total:          math.Max(RoundCents(subtotal-discount), 0),
	}
}

// HasDiscount reports whether a non-zero discount applies.
func (b Budget) HasDiscount() bool {
	return b.DiscountAmount > 0
}

// RoundCents rounds v to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidAmount reports whether v is usable as a monetary input.
func ValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// FormatBRL formats v as "R$ 1234,50".
func FormatBRL(v float64) string {
	s := strconv.FormatFloat(RoundCents(v), 'f', 2, 64)
	return "R$ " + strings.Replace(s, ".", ",", 1)
}
