package request

import "encoding/json"

// BillingPaymentCreateRequest charges the approved total of an order.
//
// `mp_payload` is forwarded to Mercado Pago as-is to support varying schemas;
// transaction_amount is always overwritten with the outstanding total.
type BillingPaymentCreateRequest struct {
	MPPayload json.RawMessage `json:"mp_payload"`
}
