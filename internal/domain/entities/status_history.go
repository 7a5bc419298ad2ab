package entities

import "time"

// StatusHistoryEntry is one row of the append-only order timeline.
//
// Storage model (DynamoDB):
//   - PK: order_id
//   - SK: id (UUIDv7, so sort order is creation order)
type StatusHistoryEntry struct {
	ID        string      `json:"id"`
	OrderID   string      `json:"order_id"`
	Status    OrderStatus `json:"status"`
	Notes     *string     `json:"notes"`
	CreatedBy *string     `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
}
