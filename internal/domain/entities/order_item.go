package entities

import "time"

// ServiceOrderItem is an additional piece of equipment under the same order.
type ServiceOrderItem struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	Equipment     string    `json:"equipment"`
	Brand         string    `json:"brand,omitempty"`
	Model         string    `json:"model,omitempty"`
	SerialNumber  string    `json:"serial_number,omitempty"`
	ReportedIssue string    `json:"reported_issue,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
