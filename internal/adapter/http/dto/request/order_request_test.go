package request

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{`150.5`, 150.5},
		{`"150,50"`, 150.5},
		{`"150.50"`, 150.5},
		{`"R$ 1.234,56"`, 1234.56},
		{`" 0 "`, 0},
		{`"1.500"`, 1500},
		{`"R$ 1.234.567"`, 1234567},
		{`"1.5"`, 1.5},
		{`"1.5000"`, 1.5},
		{`1.500`, 1.5},
	}
	for _, tc := range cases {
		var a Amount
		if err := json.Unmarshal([]byte(tc.in), &a); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.in, err)
		}
		if a.Float64() != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.in, tc.want, a.Float64())
		}
	}

	for _, bad := range []string{`"abc"`, `""`, `true`, `"NaN"`, `"1.50.00"`} {
		var a Amount
		if err := json.Unmarshal([]byte(bad), &a); !errors.Is(err, ErrInvalidAmountValue) {
			t.Fatalf("%s: expected ErrInvalidAmountValue, got %v", bad, err)
		}
	}
}

func TestTransitionRequest_Decode(t *testing.T) {
	var r TransitionRequest
	body := `{"status":" Awaiting_Approval ","labor_cost":"150,00","parts_cost":50,"notes":"   "}`
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.ResolveStatus(); got != "awaiting_approval" {
		t.Fatalf("expected awaiting_approval, got %q", got)
	}
	if r.ResolveNotes() != nil {
		t.Fatalf("expected blank notes to be dropped")
	}
	labor, parts := AmountPtr(r.LaborCost), AmountPtr(r.PartsCost)
	if labor == nil || *labor != 150 || parts == nil || *parts != 50 {
		t.Fatalf("unexpected costs: %v %v", labor, parts)
	}
	if AmountPtr(nil) != nil {
		t.Fatalf("expected nil for missing amount")
	}
}

func TestPostMessageRequest_ResolveSenderRole(t *testing.T) {
	if got := (PostMessageRequest{}).ResolveSenderRole(); got != "admin" {
		t.Fatalf("expected admin, got %q", got)
	}
	if got := (PostMessageRequest{SenderRole: " Client "}).ResolveSenderRole(); got != "client" {
		t.Fatalf("expected client, got %q", got)
	}
}
